package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	names map[int64]string
}

func (d *stubDirectory) CustomerName(_ context.Context, id int64) (string, error) {
	name, ok := d.names[id]
	if !ok {
		return "", fmt.Errorf("customer %d not found", id)
	}
	return name, nil
}

type stubDispatcher struct {
	opened []Order
	nextID int64
	fail   error
}

func (d *stubDispatcher) OpenFromOrder(_ context.Context, o Order) (int64, error) {
	if d.fail != nil {
		return 0, d.fail
	}
	d.opened = append(d.opened, o)
	d.nextID++
	return d.nextID, nil
}

func newOrderService(t *testing.T) (*Service, *stubDispatcher) {
	t.Helper()
	dispatcher := &stubDispatcher{}
	svc := NewService(
		NewMemoryRepository(),
		&stubDirectory{names: map[int64]string{10: "บจก. สปอร์ตอีเวนต์"}},
		dispatcher,
		nil,
	)
	svc.now = func() time.Time {
		return time.Date(2025, 8, 29, 9, 0, 0, 0, time.UTC)
	}
	return svc, dispatcher
}

func orderInput() CreateInput {
	return CreateInput{
		JobName:         "เหรียญวิ่งมาราธอน 2025",
		CustomerID:      10,
		SalesPerson:     "malee",
		ProductType:     ProductTypeCustom,
		ProductCategory: CategoryMedal,
		Material:        "zinc alloy",
		Colors:          []string{"gold", "navy"},
		Quantity:        800,
		CustomerBudget:  85,
		EventDate:       time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestOrderCreate(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orderInput())
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	require.Equal(t, StatusSubmitted, o.Status)
	require.Equal(t, "บจก. สปอร์ตอีเวนต์", o.CustomerName, "customer name is denormalised at capture")

	input := orderInput()
	input.Draft = true
	draft, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, draft.Status)

	bad := orderInput()
	bad.CustomerID = 404
	_, err = svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = orderInput()
	bad.Quantity = 0
	_, err = svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)

	bad = orderInput()
	bad.ProductCategory = "sticker"
	_, err = svc.Create(ctx, bad)
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderSubmitDraftOnly(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	input := orderInput()
	input.Draft = true
	o, err := svc.Create(ctx, input)
	require.NoError(t, err)

	submitted, err := svc.Submit(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSubmitted, submitted.Status)

	_, err = svc.Submit(ctx, o.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Submit(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOrderForwardToDesign(t *testing.T) {
	svc, dispatcher := newOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orderInput())
	require.NoError(t, err)

	forwarded, jobID, err := svc.ForwardToDesign(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusForwardedDesign, forwarded.Status)
	require.Equal(t, int64(1), jobID)
	require.Len(t, dispatcher.opened, 1)
	require.Equal(t, o.ID, dispatcher.opened[0].ID)

	_, _, err = svc.ForwardToDesign(ctx, o.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestOrderForwardDispatchFailureKeepsStatus(t *testing.T) {
	svc, dispatcher := newOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orderInput())
	require.NoError(t, err)

	dispatcher.fail = fmt.Errorf("design queue unavailable")
	_, _, err = svc.ForwardToDesign(ctx, o.ID)
	require.Error(t, err)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSubmitted, got.Status, "order stays submitted when the handoff fails")
}

func TestOrderListFilters(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, orderInput())
		require.NoError(t, err)
	}
	input := orderInput()
	input.Draft = true
	input.JobName = "ถ้วยรางวัลกอล์ฟ"
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	_, total, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 4, total)

	drafts, total, err := svc.List(ctx, ListFilters{Status: StatusDraft})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "ถ้วยรางวัลกอล์ฟ", drafts[0].JobName)

	found, total, err := svc.List(ctx, ListFilters{Search: "กอล์ฟ"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, found, 1)
}
