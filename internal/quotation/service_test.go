package quotation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trophydesk/trophydesk/internal/catalog"
	"github.com/trophydesk/trophydesk/internal/shared"
)

type stubAudit struct {
	records []shared.AuditLog
}

func (a *stubAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.records = append(a.records, log)
	return nil
}

type stubNotifier struct {
	notices []SalesNotice
}

func (n *stubNotifier) NotifySales(_ context.Context, notice SalesNotice) error {
	n.notices = append(n.notices, notice)
	return nil
}

type stubMetrics struct {
	statuses []string
}

func (m *stubMetrics) ObserveTransition(status string) {
	m.statuses = append(m.statuses, status)
}

type serviceFixture struct {
	svc      *Service
	repo     *MemoryRepository
	audit    *stubAudit
	notifier *stubNotifier
	metrics  *stubMetrics
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:     NewMemoryRepository(),
		audit:    &stubAudit{},
		notifier: &stubNotifier{},
		metrics:  &stubMetrics{},
	}
	f.svc = NewService(f.repo, NewSessionStore(), catalog.Default(), f.audit, f.notifier, f.metrics)
	f.svc.now = func() time.Time {
		return time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC)
	}
	return f
}

func actorContext() context.Context {
	return shared.ContextWithActor(context.Background(), shared.Actor{ID: 9, Name: "somchai"})
}

func createInputFixture() CreateInput {
	return CreateInput{
		JobName:        "เหรียญวิ่งมาราธอน 2025",
		CustomerName:   "บจก. สปอร์ตอีเวนต์",
		SalesPerson:    "malee",
		ProductType:    ProductTypeCustom,
		Material:       "zinc alloy",
		Quantity:       800,
		CustomerBudget: 85,
		EventDate:      time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
	}
}

func (f *serviceFixture) createSubmitted(t *testing.T) *Quotation {
	t.Helper()
	q, err := f.svc.Create(actorContext(), createInputFixture())
	require.NoError(t, err)
	require.Equal(t, StatusSubmitted, q.Status)
	return q
}

func (f *serviceFixture) advanceToQuoted(t *testing.T) *Quotation {
	t.Helper()
	ctx := actorContext()
	q := f.createSubmitted(t)
	_, err := f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)

	entry, err := f.svc.AddFactoryEntry(ctx, q.ID, "china_yiwu")
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateEntryField(ctx, q.ID, entry.ID, FieldUnitCost, 12.5))
	require.NoError(t, f.svc.UpdateEntryField(ctx, q.ID, entry.ID, FieldMoldCost, 800.0))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldShippingCostRMB, 120))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldExchangeRate, 5.5))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldVATPercent, 7))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldLanyardSellingPriceTHB, 15))
	require.NoError(t, f.svc.SelectWinner(ctx, q.ID, entry.ID))

	approved, err := f.svc.ApproveWithWinner(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusQuoted, approved.Status)
	return approved
}

func TestServiceCreate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()

	q := f.createSubmitted(t)
	require.Equal(t, "250829-01-XXX", q.JobCode)
	require.NotZero(t, q.ID)

	input := createInputFixture()
	input.PreferredFactory = "chaina_yiwu"
	second, err := f.svc.Create(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "250829-02-YW", second.JobCode)

	bad := createInputFixture()
	bad.Quantity = 0
	_, err = f.svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = createInputFixture()
	bad.CustomerName = ""
	_, err = f.svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = createInputFixture()
	bad.ProductType = "bespoke"
	_, err = f.svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)

	require.NotEmpty(t, f.audit.records)
	require.Equal(t, "QUOTE_CREATE", f.audit.records[0].Action)
}

func TestServiceAcceptOpensSession(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.createSubmitted(t)

	accepted, err := f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInEstimation, accepted.Status)
	require.Equal(t, "อยู่ระหว่างการประเมินราคา", accepted.StatusLabel())

	sess, err := f.svc.Session(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 800, sess.Header.Quantity)
	require.InDelta(t, 85, sess.Header.UnitSellingPriceTHB, 1e-9)

	_, err = f.svc.AcceptJob(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidState)
	require.Contains(t, f.metrics.statuses, string(StatusInEstimation))
}

func TestServiceRejectRequiresReason(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.createSubmitted(t)

	_, err := f.svc.RejectJob(ctx, q.ID, "   ")
	require.ErrorIs(t, err, ErrValidation)

	rejected, err := f.svc.RejectJob(ctx, q.ID, "ขอไฟล์แบบด้านหลังเพิ่ม")
	require.NoError(t, err)
	require.Equal(t, StatusNeedsMoreInfo, rejected.Status)
	require.Len(t, rejected.RejectionLogs, 1)
	require.Equal(t, "somchai", rejected.RejectionLogs[0].RejectedBy)
	require.Equal(t, "ขอไฟล์แบบด้านหลังเพิ่ม", rejected.RejectionLogs[0].Reason)

	require.Len(t, f.notifier.notices, 1)
	require.Equal(t, "needs_more_info", f.notifier.notices[0].Kind)
	require.Equal(t, "malee", f.notifier.notices[0].SalesPerson)

	// A job already sent back cannot be rejected again.
	_, err = f.svc.RejectJob(ctx, q.ID, "another reason")
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestServiceResubmitAfterRejection(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.createSubmitted(t)

	_, err := f.svc.ResubmitJob(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.RejectJob(ctx, q.ID, "ขาดขนาดสายคล้อง")
	require.NoError(t, err)

	resubmitted, err := f.svc.ResubmitJob(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSubmitted, resubmitted.Status)
	// The rejection trail survives the round trip.
	require.Len(t, resubmitted.RejectionLogs, 1)
}

func TestServiceApproveWithWinner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.createSubmitted(t)
	_, err := f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)

	entry, err := f.svc.AddFactoryEntry(ctx, q.ID, "china_yiwu")
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateEntryField(ctx, q.ID, entry.ID, FieldUnitCost, 12.5))
	require.NoError(t, f.svc.UpdateEntryField(ctx, q.ID, entry.ID, FieldMoldCost, 800.0))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldShippingCostRMB, 120))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldExchangeRate, 5.5))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldVATPercent, 7))
	require.NoError(t, f.svc.UpdateGlobalHeader(ctx, q.ID, FieldLanyardSellingPriceTHB, 15))

	_, err = f.svc.ApproveWithWinner(ctx, q.ID)
	require.ErrorIs(t, err, ErrValidation, "approval without a winner must fail")

	require.NoError(t, f.svc.SelectWinner(ctx, q.ID, entry.ID))
	approved, err := f.svc.ApproveWithWinner(ctx, q.ID)
	require.NoError(t, err)

	require.Equal(t, StatusQuoted, approved.Status)
	require.NotNil(t, approved.WinnerFactoryValue)
	require.Equal(t, "china_yiwu", *approved.WinnerFactoryValue)
	require.NotNil(t, approved.Factory)
	require.Equal(t, "china_yiwu", *approved.Factory)
	require.InDelta(t, 80.33025*800, approved.TotalCost, 1e-6)
	require.InDelta(t, 100*800, approved.TotalSellingPrice, 1e-6)
	require.InDelta(t, (100-80.33025)*800, approved.Profit, 1e-6)

	stored, err := f.repo.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusQuoted, stored.Status)
	require.NotNil(t, stored.WinnerFactoryValue)

	_, err = f.svc.ApproveWithWinner(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestServiceSendPriceToSales(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.advanceToQuoted(t)

	proposed, err := f.svc.SendPriceToSales(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusProposedToCustomer, proposed.Status)
	require.Len(t, f.notifier.notices, 1)
	require.Equal(t, "price_proposed", f.notifier.notices[0].Kind)
}

func TestServiceSendPriceRevisedAfterRejection(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.advanceToQuoted(t)

	_, err := f.svc.RejectJob(ctx, q.ID, "ลูกค้าขอต่อราคา")
	require.NoError(t, err)
	_, err = f.svc.ResubmitJob(ctx, q.ID)
	require.NoError(t, err)
	_, err = f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)
	sess, err := f.svc.Session(ctx, q.ID)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Entries, "session survives the revision loop")
	require.NoError(t, f.svc.SelectWinner(ctx, q.ID, sess.Entries[0].ID))
	_, err = f.svc.ApproveWithWinner(ctx, q.ID)
	require.NoError(t, err)

	proposed, err := f.svc.SendPriceToSales(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusProposedToCustomer, proposed.Status)
	last := f.notifier.notices[len(f.notifier.notices)-1]
	require.Equal(t, "price_revised", last.Kind)
}

func TestServiceOrderProduction(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.advanceToQuoted(t)
	_, err := f.svc.SendPriceToSales(ctx, q.ID)
	require.NoError(t, err)

	_, err = f.svc.OrderProduction(ctx, q.ID)
	require.ErrorIs(t, err, ErrValidation, "production requires customer confirmation")

	_, err = f.svc.ConfirmCustomer(ctx, q.ID)
	require.NoError(t, err)

	inProd, err := f.svc.OrderProduction(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProduction, inProd.Status)
	require.NotNil(t, inProd.ProductionStep)
	require.Equal(t, StepIssuePO, *inProd.ProductionStep)
	require.Len(t, inProd.ProductionStepHistory, 1)
	require.Equal(t, StepIssuePO, inProd.ProductionStepHistory[0].Step)
	require.Equal(t, "somchai", inProd.ProductionStepHistory[0].UpdatedBy)

	_, err = f.svc.Session(ctx, q.ID)
	require.ErrorIs(t, err, ErrNotFound, "session is discarded once production starts")

	_, err = f.svc.CancelJob(ctx, q.ID, "too late")
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestServiceAdvanceProductionStep(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.advanceToQuoted(t)
	_, err := f.svc.SendPriceToSales(ctx, q.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmCustomer(ctx, q.ID)
	require.NoError(t, err)
	_, err = f.svc.OrderProduction(ctx, q.ID)
	require.NoError(t, err)

	_, err = f.svc.AdvanceProductionStep(ctx, q.ID, "ส่งของแล้ว")
	require.ErrorIs(t, err, ErrValidation)

	// Steps can be set in any order; every change lands in the log.
	updated, err := f.svc.AdvanceProductionStep(ctx, q.ID, StepProductionStarted)
	require.NoError(t, err)
	updated, err = f.svc.AdvanceProductionStep(ctx, q.ID, StepDepositPaid)
	require.NoError(t, err)
	require.Equal(t, StepDepositPaid, *updated.ProductionStep)
	require.Len(t, updated.ProductionStepHistory, 3)
	require.Equal(t, StepIssuePO, updated.ProductionStepHistory[0].Step)
	require.Equal(t, StepProductionStarted, updated.ProductionStepHistory[1].Step)
	require.Equal(t, StepDepositPaid, updated.ProductionStepHistory[2].Step)
}

func TestServiceCancelPreProduction(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.createSubmitted(t)
	_, err := f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelJob(ctx, q.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	cancelled, err := f.svc.CancelJob(ctx, q.ID, "ลูกค้ายกเลิกงาน")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
	require.Len(t, cancelled.RejectionLogs, 1)

	_, err = f.svc.Session(ctx, q.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCompleteWithoutProduction(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()
	q := f.advanceToQuoted(t)
	_, err := f.svc.SendPriceToSales(ctx, q.ID)
	require.NoError(t, err)

	_, err = f.svc.CompleteWithoutProduction(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.ConfirmCustomer(ctx, q.ID)
	require.NoError(t, err)

	done, err := f.svc.CompleteWithoutProduction(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, done.Status)
}

func TestServiceListFilters(t *testing.T) {
	f := newServiceFixture(t)
	ctx := actorContext()

	for i := 0; i < 3; i++ {
		f.createSubmitted(t)
	}
	q := f.createSubmitted(t)
	_, err := f.svc.AcceptJob(ctx, q.ID)
	require.NoError(t, err)

	all, total, err := f.svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, all, 4)

	submitted, total, err := f.svc.List(ctx, ListFilters{Status: StatusSubmitted})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	for _, item := range submitted {
		require.Equal(t, StatusSubmitted, item.Status)
	}

	paged, total, err := f.svc.List(ctx, ListFilters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, paged, 2)
}
