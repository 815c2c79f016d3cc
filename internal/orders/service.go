package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trophydesk/trophydesk/internal/shared"
)

// CustomerDirectory resolves customer ids at intake time.
type CustomerDirectory interface {
	CustomerName(ctx context.Context, id int64) (string, error)
}

// DesignDispatcher opens a design job for a submitted order.
type DesignDispatcher interface {
	OpenFromOrder(ctx context.Context, o Order) (int64, error)
}

// AuditPort records audit trail entries after successful transitions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the order intake flow: capture, submission, and the
// handoff to the design queue.
type Service struct {
	repo       Repository
	customers  CustomerDirectory
	dispatcher DesignDispatcher
	audit      AuditPort
	now        func() time.Time
}

// NewService constructs the order service.
func NewService(repo Repository, customers CustomerDirectory, dispatcher DesignDispatcher, audit AuditPort) *Service {
	return &Service{
		repo:       repo,
		customers:  customers,
		dispatcher: dispatcher,
		audit:      audit,
		now:        time.Now,
	}
}

// CreateInput describes a new order captured by the sales desk.
type CreateInput struct {
	JobName         string
	CustomerID      int64
	SalesPerson     string
	ProductType     ProductType
	ProductCategory ProductCategory
	Material        string
	Size            string
	Thickness       string
	Colors          []string
	FrontDetails    string
	BackDetails     string
	LanyardSize     string
	LanyardPatterns int
	CustomerBudget  float64
	Quantity        int
	EventDate       time.Time
	AttachmentRef   string
	// Draft keeps the order editable instead of submitting it
	// immediately.
	Draft bool
}

// Create captures an order. The customer must exist; the customer name
// is denormalised onto the record at capture time.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	jobName := strings.TrimSpace(input.JobName)
	if jobName == "" {
		return nil, fmt.Errorf("%w: job name is required", ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if input.ProductType != ProductTypeCustom && input.ProductType != ProductTypeReadymade {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, input.ProductType)
	}
	if !input.ProductCategory.Valid() {
		return nil, fmt.Errorf("%w: unknown product category %q", ErrValidation, input.ProductCategory)
	}
	customerName, err := s.customers.CustomerName(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer %d not found", ErrValidation, input.CustomerID)
	}

	now := s.now()
	status := StatusSubmitted
	if input.Draft {
		status = StatusDraft
	}
	o := Order{
		JobName:         jobName,
		CustomerID:      input.CustomerID,
		CustomerName:    customerName,
		SalesPerson:     input.SalesPerson,
		ProductType:     input.ProductType,
		ProductCategory: input.ProductCategory,
		Material:        input.Material,
		Size:            input.Size,
		Thickness:       input.Thickness,
		Colors:          input.Colors,
		FrontDetails:    input.FrontDetails,
		BackDetails:     input.BackDetails,
		LanyardSize:     input.LanyardSize,
		LanyardPatterns: input.LanyardPatterns,
		CustomerBudget:  input.CustomerBudget,
		Quantity:        input.Quantity,
		EventDate:       input.EventDate,
		AttachmentRef:   input.AttachmentRef,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	id, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = id
	s.recordAudit(ctx, "ORDER_CREATE", id, map[string]any{"status": string(status)})
	return &o, nil
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, filters)
}

// Submit moves a draft order into the submitted queue.
func (s *Service) Submit(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDraft {
		return nil, fmt.Errorf("%w: submit requires status %s, have %s", ErrInvalidState, StatusDraft, o.Status)
	}
	o.Status = StatusSubmitted
	o.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *o); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "ORDER_SUBMIT", id, nil)
	return o, nil
}

// ForwardToDesign hands a submitted order to the design queue, opening
// a design job for it.
func (s *Service) ForwardToDesign(ctx context.Context, id int64) (*Order, int64, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if o.Status != StatusSubmitted {
		return nil, 0, fmt.Errorf("%w: forwarding requires status %s, have %s", ErrInvalidState, StatusSubmitted, o.Status)
	}
	jobID, err := s.dispatcher.OpenFromOrder(ctx, *o)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: open design job: %w", err)
	}
	o.Status = StatusForwardedDesign
	o.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, *o); err != nil {
		return nil, 0, err
	}
	s.recordAudit(ctx, "ORDER_FORWARD_DESIGN", id, map[string]any{"design_job_id": jobID})
	return o, jobID, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor := shared.ActorFromContext(ctx)
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "order",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	})
}
