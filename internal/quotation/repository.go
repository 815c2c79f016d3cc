package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trophydesk/trophydesk/internal/platform/db"
)

// ListFilters narrows quotation listings.
type ListFilters struct {
	Status      Status
	SalesPerson string
	Search      string
	Limit       int
	Offset      int
}

// Repository supplies and persists quotation records. Writes replace
// the record wholesale; there are no field-level updates.
type Repository interface {
	Get(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, filters ListFilters) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	Replace(ctx context.Context, q Quotation) error
	// CountCreatedOn returns how many quotations were created on the
	// given day, used as the job-code sequence index.
	CountCreatedOn(ctx context.Context, day time.Time) (int, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const quotationColumns = `id, job_code, job_name, customer_name, sales_person, product_type,
material, size, thickness, colors, front_details, back_details, lanyard_size, lanyard_patterns,
customer_budget, quantity, factory, factory_label, total_cost, total_selling_price, profit,
status, created_date, event_date, winner_factory_value, customer_confirmed, production_step,
production_step_history, rejection_logs`

func (r *pgRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	q, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("quotation: get %d: %w", id, err)
	}
	return q, nil
}

func (r *pgRepository) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	conditions := "TRUE"
	args := []any{}
	argPos := 1
	if filters.Status != "" {
		conditions += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(filters.Status))
		argPos++
	}
	if filters.SalesPerson != "" {
		conditions += fmt.Sprintf(" AND sales_person = $%d", argPos)
		args = append(args, filters.SalesPerson)
		argPos++
	}
	if filters.Search != "" {
		conditions += fmt.Sprintf(" AND (job_name ILIKE $%d OR customer_name ILIKE $%d OR job_code ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotations WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quotation: count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT `+quotationColumns+` FROM quotations WHERE `+conditions+
		` ORDER BY created_date DESC, id DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("quotation: list: %w", err)
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("quotation: scan: %w", err)
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *pgRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	colors, history, logs, err := marshalLogs(q)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `INSERT INTO quotations (job_code, job_name, customer_name, sales_person, product_type,
material, size, thickness, colors, front_details, back_details, lanyard_size, lanyard_patterns,
customer_budget, quantity, factory, factory_label, total_cost, total_selling_price, profit,
status, created_date, event_date, winner_factory_value, customer_confirmed, production_step,
production_step_history, rejection_logs)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
RETURNING id`,
			q.JobCode, q.JobName, q.CustomerName, q.SalesPerson, string(q.ProductType),
			q.Material, q.Size, q.Thickness, colors, q.FrontDetails, q.BackDetails, q.LanyardSize, q.LanyardPatterns,
			q.CustomerBudget, q.Quantity, q.Factory, q.FactoryLabel, q.TotalCost, q.TotalSellingPrice, q.Profit,
			string(q.Status), q.CreatedDate, q.EventDate, q.WinnerFactoryValue, q.CustomerConfirmed, stepValue(q.ProductionStep),
			history, logs).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("quotation: create: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Replace(ctx context.Context, q Quotation) error {
	colors, history, logs, err := marshalLogs(q)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE quotations SET job_code=$2, job_name=$3, customer_name=$4, sales_person=$5,
product_type=$6, material=$7, size=$8, thickness=$9, colors=$10, front_details=$11, back_details=$12,
lanyard_size=$13, lanyard_patterns=$14, customer_budget=$15, quantity=$16, factory=$17, factory_label=$18,
total_cost=$19, total_selling_price=$20, profit=$21, status=$22, created_date=$23, event_date=$24,
winner_factory_value=$25, customer_confirmed=$26, production_step=$27, production_step_history=$28,
rejection_logs=$29
WHERE id=$1`,
			q.ID, q.JobCode, q.JobName, q.CustomerName, q.SalesPerson,
			string(q.ProductType), q.Material, q.Size, q.Thickness, colors, q.FrontDetails, q.BackDetails,
			q.LanyardSize, q.LanyardPatterns, q.CustomerBudget, q.Quantity, q.Factory, q.FactoryLabel,
			q.TotalCost, q.TotalSellingPrice, q.Profit, string(q.Status), q.CreatedDate, q.EventDate,
			q.WinnerFactoryValue, q.CustomerConfirmed, stepValue(q.ProductionStep), history,
			logs)
		if err != nil {
			return fmt.Errorf("quotation: replace %d: %w", q.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *pgRepository) CountCreatedOn(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotations WHERE created_date::date = $1::date`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("quotation: count created: %w", err)
	}
	return count, nil
}

func marshalLogs(q Quotation) (colors, history, logs []byte, err error) {
	if colors, err = json.Marshal(q.Colors); err != nil {
		return nil, nil, nil, fmt.Errorf("quotation: marshal colors: %w", err)
	}
	if history, err = json.Marshal(q.ProductionStepHistory); err != nil {
		return nil, nil, nil, fmt.Errorf("quotation: marshal step history: %w", err)
	}
	if logs, err = json.Marshal(q.RejectionLogs); err != nil {
		return nil, nil, nil, fmt.Errorf("quotation: marshal rejection logs: %w", err)
	}
	return colors, history, logs, nil
}

func stepValue(step *ProductionStep) *string {
	if step == nil {
		return nil
	}
	s := string(*step)
	return &s
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var (
		q           Quotation
		productType string
		status      string
		step        *string
		colors      []byte
		history     []byte
		logs        []byte
	)
	err := row.Scan(&q.ID, &q.JobCode, &q.JobName, &q.CustomerName, &q.SalesPerson, &productType,
		&q.Material, &q.Size, &q.Thickness, &colors, &q.FrontDetails, &q.BackDetails, &q.LanyardSize, &q.LanyardPatterns,
		&q.CustomerBudget, &q.Quantity, &q.Factory, &q.FactoryLabel, &q.TotalCost, &q.TotalSellingPrice, &q.Profit,
		&status, &q.CreatedDate, &q.EventDate, &q.WinnerFactoryValue, &q.CustomerConfirmed, &step,
		&history, &logs)
	if err != nil {
		return nil, err
	}
	q.ProductType = ProductType(productType)
	q.Status = Status(status)
	if step != nil {
		s := ProductionStep(*step)
		q.ProductionStep = &s
	}
	if err := json.Unmarshal(colors, &q.Colors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &q.ProductionStepHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(logs, &q.RejectionLogs); err != nil {
		return nil, err
	}
	return &q, nil
}
