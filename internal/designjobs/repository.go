package designjobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilters narrows design job listings.
type ListFilters struct {
	Status   Status
	Designer string
	Limit    int
	Offset   int
}

// Repository supplies and persists design jobs.
type Repository interface {
	Get(ctx context.Context, id int64) (*DesignJob, error)
	List(ctx context.Context, filters ListFilters) ([]DesignJob, int, error)
	Create(ctx context.Context, j DesignJob) (int64, error)
	Replace(ctx context.Context, j DesignJob) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const designJobColumns = `id, order_id, job_name, customer_name, sales_person, designer, notes, artwork_ref,
status, quotation_id, created_at, updated_at`

func (r *pgRepository) Get(ctx context.Context, id int64) (*DesignJob, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+designJobColumns+` FROM design_jobs WHERE id = $1`, id)
	j, err := scanDesignJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("designjobs: get %d: %w", id, err)
	}
	return j, nil
}

func (r *pgRepository) List(ctx context.Context, filters ListFilters) ([]DesignJob, int, error) {
	conditions := "TRUE"
	args := []any{}
	argPos := 1
	if filters.Status != "" {
		conditions += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(filters.Status))
		argPos++
	}
	if filters.Designer != "" {
		conditions += fmt.Sprintf(" AND designer = $%d", argPos)
		args = append(args, filters.Designer)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM design_jobs WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("designjobs: count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT `+designJobColumns+` FROM design_jobs WHERE `+conditions+
		` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("designjobs: list: %w", err)
	}
	defer rows.Close()

	var items []DesignJob
	for rows.Next() {
		j, err := scanDesignJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("designjobs: scan: %w", err)
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *pgRepository) Create(ctx context.Context, j DesignJob) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO design_jobs (order_id, job_name, customer_name, sales_person, designer,
notes, artwork_ref, status, quotation_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id`,
		j.OrderID, j.JobName, j.CustomerName, j.SalesPerson, j.Designer,
		j.Notes, j.ArtworkRef, string(j.Status), j.QuotationID, j.CreatedAt, j.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("designjobs: create: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Replace(ctx context.Context, j DesignJob) error {
	tag, err := r.pool.Exec(ctx, `UPDATE design_jobs SET order_id=$2, job_name=$3, customer_name=$4, sales_person=$5,
designer=$6, notes=$7, artwork_ref=$8, status=$9, quotation_id=$10, updated_at=$11
WHERE id=$1`,
		j.ID, j.OrderID, j.JobName, j.CustomerName, j.SalesPerson,
		j.Designer, j.Notes, j.ArtworkRef, string(j.Status), j.QuotationID, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("designjobs: replace %d: %w", j.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDesignJob(row pgx.Row) (*DesignJob, error) {
	var (
		j      DesignJob
		status string
	)
	err := row.Scan(&j.ID, &j.OrderID, &j.JobName, &j.CustomerName, &j.SalesPerson, &j.Designer, &j.Notes, &j.ArtworkRef,
		&status, &j.QuotationID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Status = Status(status)
	return &j, nil
}
