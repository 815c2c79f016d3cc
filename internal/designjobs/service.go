package designjobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trophydesk/trophydesk/internal/orders"
	"github.com/trophydesk/trophydesk/internal/quotation"
	"github.com/trophydesk/trophydesk/internal/shared"
)

// OrderSource supplies the originating order when a finished design is
// handed to procurement.
type OrderSource interface {
	Get(ctx context.Context, id int64) (*orders.Order, error)
}

// QuotationIntake opens a quotation on the procurement side.
type QuotationIntake interface {
	Create(ctx context.Context, input quotation.CreateInput) (*quotation.Quotation, error)
}

// AuditPort records audit trail entries after successful transitions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the design queue: assignment, progress tracking, and the
// handoff that opens a quotation.
type Service struct {
	repo       Repository
	orderSrc   OrderSource
	quotations QuotationIntake
	audit      AuditPort
	now        func() time.Time
}

// NewService constructs the design job service.
func NewService(repo Repository, orderSrc OrderSource, quotations QuotationIntake, audit AuditPort) *Service {
	return &Service{
		repo:       repo,
		orderSrc:   orderSrc,
		quotations: quotations,
		audit:      audit,
		now:        time.Now,
	}
}

// OpenFromOrder creates a pending design job for a submitted order.
func (s *Service) OpenFromOrder(ctx context.Context, o orders.Order) (int64, error) {
	now := s.now()
	id, err := s.repo.Create(ctx, DesignJob{
		OrderID:      o.ID,
		JobName:      o.JobName,
		CustomerName: o.CustomerName,
		SalesPerson:  o.SalesPerson,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return 0, err
	}
	s.recordAudit(ctx, "DESIGN_OPEN", id, map[string]any{"order_id": o.ID})
	return id, nil
}

// Get returns one design job.
func (s *Service) Get(ctx context.Context, id int64) (*DesignJob, error) {
	return s.repo.Get(ctx, id)
}

// List returns design jobs matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]DesignJob, int, error) {
	return s.repo.List(ctx, filters)
}

// Assign hands a pending job to a designer. Reassignment is allowed
// until work starts.
func (s *Service) Assign(ctx context.Context, id int64, designer string) (*DesignJob, error) {
	designer = strings.TrimSpace(designer)
	if designer == "" {
		return nil, fmt.Errorf("%w: designer name required", ErrValidation)
	}
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusPending && j.Status != StatusAssigned {
		return nil, fmt.Errorf("%w: cannot assign in status %s", ErrInvalidState, j.Status)
	}
	j.Designer = designer
	j.Status = StatusAssigned
	j.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *j); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "DESIGN_ASSIGN", id, map[string]any{"designer": designer})
	return j, nil
}

// Start marks an assigned job as in progress.
func (s *Service) Start(ctx context.Context, id int64) (*DesignJob, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusAssigned {
		return nil, fmt.Errorf("%w: start requires status %s, have %s", ErrInvalidState, StatusAssigned, j.Status)
	}
	j.Status = StatusInProgress
	j.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *j); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "DESIGN_START", id, nil)
	return j, nil
}

// Complete marks the artwork as finished. The artwork reference is
// required so procurement has something to quote against.
func (s *Service) Complete(ctx context.Context, id int64, artworkRef string) (*DesignJob, error) {
	artworkRef = strings.TrimSpace(artworkRef)
	if artworkRef == "" {
		return nil, fmt.Errorf("%w: artwork reference required", ErrValidation)
	}
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: completion requires status %s, have %s", ErrInvalidState, StatusInProgress, j.Status)
	}
	j.Status = StatusDone
	j.ArtworkRef = artworkRef
	j.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *j); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "DESIGN_COMPLETE", id, nil)
	return j, nil
}

// ForwardToProcurement hands a finished design to procurement, opening
// a submitted quotation seeded from the originating order.
func (s *Service) ForwardToProcurement(ctx context.Context, id int64) (*DesignJob, int64, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if j.Status != StatusDone {
		return nil, 0, fmt.Errorf("%w: forwarding requires status %s, have %s", ErrInvalidState, StatusDone, j.Status)
	}
	o, err := s.orderSrc.Get(ctx, j.OrderID)
	if err != nil {
		return nil, 0, fmt.Errorf("designjobs: load order %d: %w", j.OrderID, err)
	}

	q, err := s.quotations.Create(ctx, quotation.CreateInput{
		JobName:         o.JobName,
		CustomerName:    o.CustomerName,
		SalesPerson:     o.SalesPerson,
		ProductType:     quotation.ProductType(o.ProductType),
		Material:        o.Material,
		Size:            o.Size,
		Thickness:       o.Thickness,
		Colors:          o.Colors,
		FrontDetails:    o.FrontDetails,
		BackDetails:     o.BackDetails,
		LanyardSize:     o.LanyardSize,
		LanyardPatterns: o.LanyardPatterns,
		CustomerBudget:  o.CustomerBudget,
		Quantity:        o.Quantity,
		EventDate:       o.EventDate,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("designjobs: open quotation: %w", err)
	}

	j.Status = StatusSentToProcurement
	j.QuotationID = &q.ID
	j.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *j); err != nil {
		return nil, 0, err
	}
	s.recordAudit(ctx, "DESIGN_FORWARD_PROCUREMENT", id, map[string]any{"quotation_id": q.ID})
	return j, q.ID, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor := shared.ActorFromContext(ctx)
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "design_job",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	})
}
