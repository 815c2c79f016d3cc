package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trophydesk/trophydesk/internal/platform/db"
)

// TaskQuotationReindex rebuilds the quotation search summary table.
const TaskQuotationReindex = "quotation:reindex"

// QuotationReindexPayload contains options for the reindex job.
type QuotationReindexPayload struct {
	Force bool `json:"force"`
}

// NewQuotationReindexTask builds a reindex task.
func NewQuotationReindexTask(force bool) (*asynq.Task, error) {
	body, err := json.Marshal(QuotationReindexPayload{Force: force})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationReindex, body, asynq.Queue(QueueDefault)), nil
}

// NewQuotationReindexHandler rebuilds quotation_search from the live
// quotations table. The table backs the list endpoint's free-text
// search without ILIKE-scanning the jsonb columns.
func NewQuotationReindexHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload QuotationReindexPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `TRUNCATE quotation_search`); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO quotation_search (quotation_id, job_code, status, searchable)
SELECT id, job_code, status, to_tsvector('simple', job_code || ' ' || job_name || ' ' || customer_name || ' ' || sales_person)
FROM quotations`)
			return err
		})
		if err != nil {
			logger.Error("quotation reindex", slog.Any("error", err))
			return err
		}
		logger.Info("quotation reindex done", slog.Bool("force", payload.Force))
		return nil
	}
}
