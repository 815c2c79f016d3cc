package designjobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	items  map[int64]DesignJob
	nextID int64
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]DesignJob)}
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*DesignJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneDesignJob(j)
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filters ListFilters) ([]DesignJob, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []DesignJob
	for _, j := range r.items {
		if filters.Status != "" && j.Status != filters.Status {
			continue
		}
		if filters.Designer != "" && j.Designer != filters.Designer {
			continue
		}
		matched = append(matched, cloneDesignJob(j))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
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

func (r *MemoryRepository) Create(ctx context.Context, j DesignJob) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	j.ID = r.nextID
	r.items[j.ID] = cloneDesignJob(j)
	return j.ID, nil
}

func (r *MemoryRepository) Replace(ctx context.Context, j DesignJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[j.ID]; !ok {
		return ErrNotFound
	}
	r.items[j.ID] = cloneDesignJob(j)
	return nil
}

func cloneDesignJob(j DesignJob) DesignJob {
	out := j
	if j.QuotationID != nil {
		v := *j.QuotationID
		out.QuotationID = &v
	}
	return out
}
