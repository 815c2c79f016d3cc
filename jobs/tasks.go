package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/trophydesk/trophydesk/internal/quotation"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotifySales delivers workflow notifications to the sales team.
	TaskNotifySales = "quotation:notify_sales"
)

// NewNotifySalesTask constructs an Asynq task from a sales notice.
func NewNotifySalesTask(notice quotation.SalesNotice) (*asynq.Task, error) {
	data, err := json.Marshal(notice)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifySales, data, asynq.Queue(QueueDefault)), nil
}

// NewNotifySalesHandler processes TaskNotifySales tasks. Delivery is a
// structured log line for now; LINE/email integration hangs off the
// same payload.
func NewNotifySalesHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var notice quotation.SalesNotice
		if err := json.Unmarshal(t.Payload(), &notice); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("notify sales",
			slog.Int64("quotation_id", notice.QuotationID),
			slog.String("job_code", notice.JobCode),
			slog.String("sales_person", notice.SalesPerson),
			slog.String("kind", notice.Kind),
			slog.String("message", notice.Message),
		)
		return nil
	}
}
