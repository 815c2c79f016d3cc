package jobs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/trophydesk/trophydesk/internal/quotation"
)

func TestNotifySalesTaskRoundTrip(t *testing.T) {
	task, err := NewNotifySalesTask(quotation.SalesNotice{
		QuotationID: 41,
		JobCode:     "250829-01-YW",
		SalesPerson: "malee",
		Kind:        "price_proposed",
	})
	require.NoError(t, err)
	require.Equal(t, TaskNotifySales, task.Type())

	handler := NewNotifySalesHandler(slog.Default())
	require.NoError(t, handler(context.Background(), task))
}

func TestNotifySalesHandlerSkipsBadPayload(t *testing.T) {
	handler := NewNotifySalesHandler(slog.Default())
	err := handler(context.Background(), asynq.NewTask(TaskNotifySales, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
