package quotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trophydesk/trophydesk/internal/catalog"
	"github.com/trophydesk/trophydesk/internal/shared"
)

// AuditPort records audit trail entries after successful transitions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// SalesNotice is the payload handed to the notification queue when the
// sales team needs to act on a quotation.
type SalesNotice struct {
	QuotationID int64  `json:"quotation_id"`
	JobCode     string `json:"job_code"`
	SalesPerson string `json:"sales_person"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

// Notifier enqueues sales notifications. Delivery happens out of band;
// enqueue failures must not fail the transition.
type Notifier interface {
	NotifySales(ctx context.Context, notice SalesNotice) error
}

// MetricsPort counts status transitions.
type MetricsPort interface {
	ObserveTransition(status string)
}

// Service owns the quotation lifecycle: the status state machine, the
// estimation sessions, and winner promotion.
type Service struct {
	repo     Repository
	sessions *SessionStore
	catalog  *catalog.Catalog
	audit    AuditPort
	notifier Notifier
	metrics  MetricsPort
	now      func() time.Time
}

// NewService constructs the quotation service.
func NewService(repo Repository, sessions *SessionStore, cat *catalog.Catalog, audit AuditPort, notifier Notifier, metrics MetricsPort) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		catalog:  cat,
		audit:    audit,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}
}

// CreateInput describes a new quotation request coming from the design
// or sales side.
type CreateInput struct {
	JobName         string
	CustomerName    string
	SalesPerson     string
	ProductType     ProductType
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
	// PreferredFactory seeds the job code letters; the sentinel XXX is
	// used when empty or unknown.
	PreferredFactory string
}

// Create persists a new quotation in the submitted state with a
// generated job code.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Quotation, error) {
	if input.JobName == "" || input.CustomerName == "" {
		return nil, fmt.Errorf("%w: job name and customer name are required", ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if input.ProductType != ProductTypeCustom && input.ProductType != ProductTypeReadymade {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, input.ProductType)
	}

	now := s.now()
	seq, err := s.repo.CountCreatedOn(ctx, now)
	if err != nil {
		return nil, err
	}
	q := Quotation{
		JobCode:         GenerateJobCode(s.catalog, input.PreferredFactory, seq, now),
		JobName:         input.JobName,
		CustomerName:    input.CustomerName,
		SalesPerson:     input.SalesPerson,
		ProductType:     input.ProductType,
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
		Status:          StatusSubmitted,
		CreatedDate:     now,
		EventDate:       input.EventDate,
	}
	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	q.ID = id
	s.recordAudit(ctx, "QUOTE_CREATE", id, map[string]any{"job_code": q.JobCode})
	return &q, nil
}

// Get returns one quotation.
func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

// List returns quotations matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	return s.repo.List(ctx, filters)
}

// AcceptJob moves a submitted quotation into estimation and opens its
// comparison session.
func (s *Service) AcceptJob(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusSubmitted {
		return nil, fmt.Errorf("%w: accept requires status %s, have %s", ErrInvalidState, StatusSubmitted, q.Status)
	}
	q.Status = StatusInEstimation
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.sessions.Open(q)
	s.observe(ctx, q, "QUOTE_ACCEPT")
	return q, nil
}

// RejectJob sends a quotation back to sales for more information. The
// reason is mandatory and is appended to the rejection log.
func (s *Service) RejectJob(ctx context.Context, id int64, reason string) (*Quotation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason required", ErrValidation)
	}
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch q.Status {
	case StatusSubmitted, StatusInEstimation, StatusQuoted:
	default:
		return nil, fmt.Errorf("%w: cannot reject in status %s", ErrInvalidState, q.Status)
	}
	actor := shared.ActorFromContext(ctx)
	q.Status = StatusNeedsMoreInfo
	q.RejectionLogs = append(q.RejectionLogs, RejectionLog{
		RejectedAt: s.now(),
		RejectedBy: actor.Name,
		Reason:     reason,
	})
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.observe(ctx, q, "QUOTE_REJECT")
	s.notify(ctx, q, "needs_more_info", reason)
	return q, nil
}

// CancelJob cancels a quotation in any pre-production state.
func (s *Service) CancelJob(ctx context.Context, id int64, reason string) (*Quotation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason required", ErrValidation)
	}
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.PreProduction() {
		return nil, fmt.Errorf("%w: cannot cancel in status %s", ErrInvalidState, q.Status)
	}
	actor := shared.ActorFromContext(ctx)
	q.Status = StatusCancelled
	q.RejectionLogs = append(q.RejectionLogs, RejectionLog{
		RejectedAt: s.now(),
		RejectedBy: actor.Name,
		Reason:     reason,
	})
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.sessions.Discard(id)
	s.observe(ctx, q, "QUOTE_CANCEL")
	return q, nil
}

// ResubmitJob returns a needs_more_info quotation to the submitted
// queue once sales has supplied the missing details.
func (s *Service) ResubmitJob(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusNeedsMoreInfo {
		return nil, fmt.Errorf("%w: resubmit requires status %s, have %s", ErrInvalidState, StatusNeedsMoreInfo, q.Status)
	}
	q.Status = StatusSubmitted
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.observe(ctx, q, "QUOTE_RESUBMIT")
	return q, nil
}

// Session returns the open estimation session for a quotation.
func (s *Service) Session(ctx context.Context, id int64) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: no open estimation session for quotation %d", ErrNotFound, id)
	}
	return sess, nil
}

// AddFactoryEntry adds a candidate factory to the comparison session.
func (s *Service) AddFactoryEntry(ctx context.Context, id int64, factoryCode string) (FactoryEntry, error) {
	var entry FactoryEntry
	err := s.sessions.Mutate(id, func(sess *Session) error {
		var err error
		entry, err = sess.AddEntry(s.catalog, factoryCode)
		return err
	})
	return entry, err
}

// RemoveFactoryEntry drops a candidate factory from the session.
func (s *Service) RemoveFactoryEntry(ctx context.Context, id int64, entryID string) error {
	return s.sessions.Mutate(id, func(sess *Session) error {
		return sess.RemoveEntry(entryID)
	})
}

// UpdateEntryField mutates one per-factory input and recomputes that
// entry.
func (s *Service) UpdateEntryField(ctx context.Context, id int64, entryID, field string, value any) error {
	return s.sessions.Mutate(id, func(sess *Session) error {
		return sess.UpdateEntryField(s.catalog, entryID, field, value)
	})
}

// UpdateGlobalHeader mutates one shared input and recomputes every
// entry in the session as one batch.
func (s *Service) UpdateGlobalHeader(ctx context.Context, id int64, field string, value float64) error {
	return s.sessions.Mutate(id, func(sess *Session) error {
		return sess.UpdateHeaderField(field, value)
	})
}

// SelectWinner designates a single winning entry.
func (s *Service) SelectWinner(ctx context.Context, id int64, entryID string) error {
	return s.sessions.Mutate(id, func(sess *Session) error {
		return sess.SelectWinner(entryID)
	})
}

// AttachEvidence stores a price-evidence reference on an entry.
func (s *Service) AttachEvidence(ctx context.Context, id int64, entryID, fileRef string) error {
	return s.sessions.Mutate(id, func(sess *Session) error {
		return sess.AttachEvidence(entryID, fileRef)
	})
}

// ApproveWithWinner closes the estimation round: the single winning
// entry's factory and totals are promoted onto the record in the same
// operation as the transition to quoted.
func (s *Service) ApproveWithWinner(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusInEstimation {
		return nil, fmt.Errorf("%w: approval requires status %s, have %s", ErrInvalidState, StatusInEstimation, q.Status)
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: no open estimation session for quotation %d", ErrNotFound, id)
	}
	winner, ok := sess.Winner()
	if !ok {
		return nil, fmt.Errorf("%w: no winner selected", ErrValidation)
	}

	qty := float64(sess.Header.Quantity)
	factory := winner.FactoryValue
	label := winner.FactoryLabel
	q.Status = StatusQuoted
	q.WinnerFactoryValue = &factory
	q.Factory = &factory
	q.FactoryLabel = &label
	q.Quantity = sess.Header.Quantity
	q.TotalCost = winner.TotalCostPerUnit * qty
	q.TotalSellingPrice = winner.TotalSellingPricePerUnit * qty
	q.Profit = winner.TotalProfit

	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.observe(ctx, q, "QUOTE_APPROVE")
	return q, nil
}

// SendPriceToSales proposes the approved price to the customer via the
// sales team. When the quotation carries rejection history this acts as
// the revised-price resend.
func (s *Service) SendPriceToSales(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusQuoted {
		return nil, fmt.Errorf("%w: sending price requires status %s, have %s", ErrInvalidState, StatusQuoted, q.Status)
	}
	sess, ok := s.sessions.Get(id)
	if !ok || len(sess.Entries) == 0 {
		return nil, fmt.Errorf("%w: at least one factory entry required", ErrValidation)
	}
	q.Status = StatusProposedToCustomer
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	kind := "price_proposed"
	if len(q.RejectionLogs) > 0 {
		kind = "price_revised"
	}
	s.observe(ctx, q, "QUOTE_SEND_PRICE")
	s.notify(ctx, q, kind, "")
	return q, nil
}

// ConfirmCustomer flips the customer-confirmed flag; the status does
// not change.
func (s *Service) ConfirmCustomer(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusProposedToCustomer {
		return nil, fmt.Errorf("%w: customer confirmation requires status %s, have %s", ErrInvalidState, StatusProposedToCustomer, q.Status)
	}
	q.CustomerConfirmed = true
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "QUOTE_CUSTOMER_CONFIRM", id, nil)
	return q, nil
}

// OrderProduction starts production for a customer-confirmed
// quotation, seeding the production log with the first milestone.
func (s *Service) OrderProduction(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusProposedToCustomer {
		return nil, fmt.Errorf("%w: production order requires status %s, have %s", ErrInvalidState, StatusProposedToCustomer, q.Status)
	}
	if !q.CustomerConfirmed {
		return nil, fmt.Errorf("%w: customer has not confirmed the price", ErrValidation)
	}
	actor := shared.ActorFromContext(ctx)
	step := StepIssuePO
	q.Status = StatusInProduction
	q.ProductionStep = &step
	q.ProductionStepHistory = append(q.ProductionStepHistory, ProductionStepEntry{
		Step:      step,
		UpdatedAt: s.now(),
		UpdatedBy: actor.Name,
	})
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.sessions.Discard(id)
	s.observe(ctx, q, "QUOTE_ORDER_PRODUCTION")
	return q, nil
}

// AdvanceProductionStep sets the production milestone. Any step in the
// sequence may be set, including moving backward; every change is
// appended to the history log in call order.
func (s *Service) AdvanceProductionStep(ctx context.Context, id int64, step ProductionStep) (*Quotation, error) {
	if StepIndex(step) < 0 {
		return nil, fmt.Errorf("%w: unknown production step %q", ErrValidation, step)
	}
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusInProduction {
		return nil, fmt.Errorf("%w: production steps require status %s, have %s", ErrInvalidState, StatusInProduction, q.Status)
	}
	actor := shared.ActorFromContext(ctx)
	q.ProductionStep = &step
	q.ProductionStepHistory = append(q.ProductionStepHistory, ProductionStepEntry{
		Step:      step,
		UpdatedAt: s.now(),
		UpdatedBy: actor.Name,
	})
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "QUOTE_PRODUCTION_STEP", id, map[string]any{"step": string(step)})
	return q, nil
}

// CompleteWithoutProduction closes a customer-confirmed quotation that
// will not go through the production pipeline.
func (s *Service) CompleteWithoutProduction(ctx context.Context, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusProposedToCustomer || !q.CustomerConfirmed {
		return nil, fmt.Errorf("%w: completion requires a customer-confirmed proposal", ErrInvalidState)
	}
	q.Status = StatusConfirmed
	if err := s.repo.Replace(ctx, *q); err != nil {
		return nil, err
	}
	s.sessions.Discard(id)
	s.observe(ctx, q, "QUOTE_COMPLETE")
	return q, nil
}

func (s *Service) observe(ctx context.Context, q *Quotation, action string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(q.Status))
	}
	s.recordAudit(ctx, action, q.ID, map[string]any{"status": string(q.Status)})
}

func (s *Service) recordAudit(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor := shared.ActorFromContext(ctx)
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "quotation",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	})
}

func (s *Service) notify(ctx context.Context, q *Quotation, kind, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.NotifySales(ctx, SalesNotice{
		QuotationID: q.ID,
		JobCode:     q.JobCode,
		SalesPerson: q.SalesPerson,
		Kind:        kind,
		Message:     message,
	})
}
