package customers

import (
	"context"
	"fmt"
	"strings"
)

// Service owns customer lookups for the sales intake flow.
type Service struct {
	repo Repository
}

// NewService constructs the customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput describes a new customer record.
type CreateInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	LineID        string
	Address       string
	Notes         string
}

// Create registers a customer. Names are trimmed and must be non-empty.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	c := Customer{
		Name:          name,
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.TrimSpace(input.Email),
		LineID:        strings.TrimSpace(input.LineID),
		Address:       input.Address,
		Notes:         input.Notes,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns customers matching the search plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}
