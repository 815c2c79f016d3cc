package designjobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trophydesk/trophydesk/internal/catalog"
	"github.com/trophydesk/trophydesk/internal/orders"
	"github.com/trophydesk/trophydesk/internal/quotation"
)

type fixture struct {
	svc        *Service
	orderRepo  *orders.MemoryRepository
	quotations *quotation.Service
	quoteRepo  *quotation.MemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	quoteRepo := quotation.NewMemoryRepository()
	quotations := quotation.NewService(quoteRepo, quotation.NewSessionStore(), catalog.Default(), nil, nil, nil)
	f := &fixture{
		orderRepo:  orders.NewMemoryRepository(),
		quotations: quotations,
		quoteRepo:  quoteRepo,
	}
	f.svc = NewService(NewMemoryRepository(), f.orderRepo, quotations, nil)
	f.svc.now = func() time.Time {
		return time.Date(2025, 8, 29, 11, 0, 0, 0, time.UTC)
	}
	return f
}

func (f *fixture) seedOrder(t *testing.T) orders.Order {
	t.Helper()
	o := orders.Order{
		JobName:         "เหรียญวิ่งมาราธอน 2025",
		CustomerID:      10,
		CustomerName:    "บจก. สปอร์ตอีเวนต์",
		SalesPerson:     "malee",
		ProductType:     orders.ProductTypeCustom,
		ProductCategory: orders.CategoryMedal,
		Material:        "zinc alloy",
		Colors:          []string{"gold", "navy"},
		CustomerBudget:  85,
		Quantity:        800,
		EventDate:       time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		Status:          orders.StatusSubmitted,
		CreatedAt:       time.Date(2025, 8, 29, 9, 0, 0, 0, time.UTC),
	}
	id, err := f.orderRepo.Create(context.Background(), o)
	require.NoError(t, err)
	o.ID = id
	return o
}

func TestDesignJobLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t)

	jobID, err := f.svc.OpenFromOrder(ctx, o)
	require.NoError(t, err)

	j, err := f.svc.Get(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, j.Status)
	require.Equal(t, o.JobName, j.JobName)

	_, err = f.svc.Start(ctx, jobID)
	require.ErrorIs(t, err, ErrInvalidState, "cannot start before assignment")

	_, err = f.svc.Assign(ctx, jobID, "  ")
	require.ErrorIs(t, err, ErrValidation)

	j, err = f.svc.Assign(ctx, jobID, "nok")
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, j.Status)
	require.Equal(t, "nok", j.Designer)

	// Reassignment is allowed until work starts.
	j, err = f.svc.Assign(ctx, jobID, "beam")
	require.NoError(t, err)
	require.Equal(t, "beam", j.Designer)

	j, err = f.svc.Start(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, j.Status)

	_, err = f.svc.Assign(ctx, jobID, "nok")
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.Complete(ctx, jobID, "")
	require.ErrorIs(t, err, ErrValidation)

	j, err = f.svc.Complete(ctx, jobID, "designs/marathon-2025-final.ai")
	require.NoError(t, err)
	require.Equal(t, StatusDone, j.Status)
	require.Equal(t, "designs/marathon-2025-final.ai", j.ArtworkRef)
}

func TestDesignJobForwardOpensQuotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.seedOrder(t)

	jobID, err := f.svc.OpenFromOrder(ctx, o)
	require.NoError(t, err)

	_, _, err = f.svc.ForwardToProcurement(ctx, jobID)
	require.ErrorIs(t, err, ErrInvalidState, "only finished designs can be forwarded")

	_, err = f.svc.Assign(ctx, jobID, "nok")
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, jobID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, jobID, "designs/marathon-2025-final.ai")
	require.NoError(t, err)

	j, quotationID, err := f.svc.ForwardToProcurement(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, StatusSentToProcurement, j.Status)
	require.NotNil(t, j.QuotationID)
	require.Equal(t, quotationID, *j.QuotationID)

	q, err := f.quoteRepo.Get(ctx, quotationID)
	require.NoError(t, err)
	require.Equal(t, quotation.StatusSubmitted, q.Status)
	require.Equal(t, o.JobName, q.JobName)
	require.Equal(t, o.Quantity, q.Quantity)
	require.InDelta(t, o.CustomerBudget, q.CustomerBudget, 1e-9)

	_, _, err = f.svc.ForwardToProcurement(ctx, jobID)
	require.ErrorIs(t, err, ErrInvalidState, "handoff happens once")
}

func TestDesignJobListByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		o := f.seedOrder(t)
		_, err := f.svc.OpenFromOrder(ctx, o)
		require.NoError(t, err)
	}
	o := f.seedOrder(t)
	jobID, err := f.svc.OpenFromOrder(ctx, o)
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, jobID, "nok")
	require.NoError(t, err)

	pending, total, err := f.svc.List(ctx, ListFilters{Status: StatusPending})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, pending, 3)

	assigned, total, err := f.svc.List(ctx, ListFilters{Designer: "nok"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, StatusAssigned, assigned[0].Status)
}
