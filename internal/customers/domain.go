package customers

import (
	"errors"
	"time"
)

// Customer is one buying organisation or contact the sales desk quotes
// for.
type Customer struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	ContactPerson string    `json:"contact_person" db:"contact_person"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	LineID        string    `json:"line_id" db:"line_id"`
	Address       string    `json:"address" db:"address"`
	Notes         string    `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

var (
	ErrNotFound   = errors.New("customers: not found")
	ErrDuplicate  = errors.New("customers: name already registered")
	ErrValidation = errors.New("customers: invalid input")
)
