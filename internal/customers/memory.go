package customers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and the
// development seed path.
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[int64]Customer
	nextID int64
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]Customer)}
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Customer
	for _, c := range r.items {
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.ContactPerson), needle) &&
				!strings.Contains(c.Phone, filters.Search) {
				continue
			}
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name == matched[j].Name {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Name < matched[j].Name
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

func (r *MemoryRepository) Create(ctx context.Context, c Customer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Name, c.Name) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, c.Name)
		}
	}
	r.nextID++
	c.ID = r.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.items[c.ID] = c
	return c.ID, nil
}
