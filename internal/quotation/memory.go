package quotation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// development seed path. Records are deep-copied across the boundary so
// callers cannot mutate stored state in place.
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[int64]Quotation
	nextID int64
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]Quotation)}
}

// Seed inserts records directly, assigning ids when missing.
func (r *MemoryRepository) Seed(records ...Quotation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range records {
		if q.ID == 0 {
			r.nextID++
			q.ID = r.nextID
		} else if q.ID > r.nextID {
			r.nextID = q.ID
		}
		r.items[q.ID] = cloneQuotation(q)
	}
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneQuotation(q)
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Quotation
	for _, q := range r.items {
		if filters.Status != "" && q.Status != filters.Status {
			continue
		}
		if filters.SalesPerson != "" && q.SalesPerson != filters.SalesPerson {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(q.JobName), needle) &&
				!strings.Contains(strings.ToLower(q.CustomerName), needle) &&
				!strings.Contains(strings.ToLower(q.JobCode), needle) {
				continue
			}
		}
		matched = append(matched, cloneQuotation(q))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedDate.Equal(matched[j].CreatedDate) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedDate.After(matched[j].CreatedDate)
	})
	total := len(matched)

	offset := filters.Offset
	if offset > total {
		offset = total
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *MemoryRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	q.ID = r.nextID
	r.items[q.ID] = cloneQuotation(q)
	return q.ID, nil
}

func (r *MemoryRepository) Replace(ctx context.Context, q Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[q.ID]; !ok {
		return ErrNotFound
	}
	r.items[q.ID] = cloneQuotation(q)
	return nil
}

func (r *MemoryRepository) CountCreatedOn(ctx context.Context, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	count := 0
	for _, q := range r.items {
		qy, qm, qd := q.CreatedDate.Date()
		if qy == y && qm == m && qd == d {
			count++
		}
	}
	return count, nil
}

func cloneQuotation(q Quotation) Quotation {
	out := q
	out.Colors = append([]string(nil), q.Colors...)
	out.ProductionStepHistory = append([]ProductionStepEntry(nil), q.ProductionStepHistory...)
	out.RejectionLogs = append([]RejectionLog(nil), q.RejectionLogs...)
	if q.Factory != nil {
		v := *q.Factory
		out.Factory = &v
	}
	if q.FactoryLabel != nil {
		v := *q.FactoryLabel
		out.FactoryLabel = &v
	}
	if q.WinnerFactoryValue != nil {
		v := *q.WinnerFactoryValue
		out.WinnerFactoryValue = &v
	}
	if q.ProductionStep != nil {
		v := *q.ProductionStep
		out.ProductionStep = &v
	}
	return out
}
