package orders

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and the
// development seed path.
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[int64]Order
	nextID int64
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]Order)}
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Order
	for _, o := range r.items {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.SalesPerson != "" && o.SalesPerson != filters.SalesPerson {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(o.JobName), needle) &&
				!strings.Contains(strings.ToLower(o.CustomerName), needle) {
				continue
			}
		}
		matched = append(matched, cloneOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
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

func (r *MemoryRepository) Create(ctx context.Context, o Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	r.items[o.ID] = cloneOrder(o)
	return o.ID, nil
}

func (r *MemoryRepository) Replace(ctx context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[o.ID]; !ok {
		return ErrNotFound
	}
	r.items[o.ID] = cloneOrder(o)
	return nil
}

func cloneOrder(o Order) Order {
	out := o
	out.Colors = append([]string(nil), o.Colors...)
	return out
}
