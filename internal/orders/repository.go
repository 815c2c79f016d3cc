package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trophydesk/trophydesk/internal/platform/db"
)

// ListFilters narrows order listings.
type ListFilters struct {
	Status      OrderStatus
	SalesPerson string
	Search      string
	Limit       int
	Offset      int
}

// Repository supplies and persists order records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	Create(ctx context.Context, o Order) (int64, error)
	Replace(ctx context.Context, o Order) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const orderColumns = `id, job_name, customer_id, customer_name, sales_person, product_type, product_category,
material, size, thickness, colors, front_details, back_details, lanyard_size, lanyard_patterns,
customer_budget, quantity, event_date, attachment_ref, status, created_at, updated_at`

func (r *pgRepository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: get %d: %w", id, err)
	}
	return o, nil
}

func (r *pgRepository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
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
		conditions += fmt.Sprintf(" AND (job_name ILIKE $%d OR customer_name ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders WHERE `+conditions+
		` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("orders: scan: %w", err)
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *pgRepository) Create(ctx context.Context, o Order) (int64, error) {
	colors, err := json.Marshal(o.Colors)
	if err != nil {
		return 0, fmt.Errorf("orders: marshal colors: %w", err)
	}
	var id int64
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `INSERT INTO orders (job_name, customer_id, customer_name, sales_person, product_type,
product_category, material, size, thickness, colors, front_details, back_details, lanyard_size, lanyard_patterns,
customer_budget, quantity, event_date, attachment_ref, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
RETURNING id`,
			o.JobName, o.CustomerID, o.CustomerName, o.SalesPerson, string(o.ProductType),
			string(o.ProductCategory), o.Material, o.Size, o.Thickness, colors, o.FrontDetails, o.BackDetails,
			o.LanyardSize, o.LanyardPatterns, o.CustomerBudget, o.Quantity, o.EventDate, o.AttachmentRef,
			string(o.Status), o.CreatedAt, o.UpdatedAt).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("orders: create: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Replace(ctx context.Context, o Order) error {
	colors, err := json.Marshal(o.Colors)
	if err != nil {
		return fmt.Errorf("orders: marshal colors: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE orders SET job_name=$2, customer_id=$3, customer_name=$4, sales_person=$5,
product_type=$6, product_category=$7, material=$8, size=$9, thickness=$10, colors=$11, front_details=$12,
back_details=$13, lanyard_size=$14, lanyard_patterns=$15, customer_budget=$16, quantity=$17, event_date=$18,
attachment_ref=$19, status=$20, updated_at=$21
WHERE id=$1`,
			o.ID, o.JobName, o.CustomerID, o.CustomerName, o.SalesPerson,
			string(o.ProductType), string(o.ProductCategory), o.Material, o.Size, o.Thickness, colors, o.FrontDetails,
			o.BackDetails, o.LanyardSize, o.LanyardPatterns, o.CustomerBudget, o.Quantity, o.EventDate,
			o.AttachmentRef, string(o.Status), o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("orders: replace %d: %w", o.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o           Order
		productType string
		category    string
		status      string
		colors      []byte
	)
	err := row.Scan(&o.ID, &o.JobName, &o.CustomerID, &o.CustomerName, &o.SalesPerson, &productType, &category,
		&o.Material, &o.Size, &o.Thickness, &colors, &o.FrontDetails, &o.BackDetails, &o.LanyardSize, &o.LanyardPatterns,
		&o.CustomerBudget, &o.Quantity, &o.EventDate, &o.AttachmentRef, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.ProductType = ProductType(productType)
	o.ProductCategory = ProductCategory(category)
	o.Status = OrderStatus(status)
	if err := json.Unmarshal(colors, &o.Colors); err != nil {
		return nil, err
	}
	return &o, nil
}
