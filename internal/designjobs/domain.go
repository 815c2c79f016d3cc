package designjobs

import (
	"errors"
	"time"
)

// Status tracks a design job from the intake queue to the procurement
// handoff.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAssigned          Status = "assigned"
	StatusInProgress        Status = "in_progress"
	StatusDone              Status = "done"
	StatusSentToProcurement Status = "sent_to_procurement"
)

// Valid reports whether s is a known design status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusDone, StatusSentToProcurement:
		return true
	}
	return false
}

// DesignJob is one artwork task opened from a submitted order.
type DesignJob struct {
	ID           int64  `json:"id" db:"id"`
	OrderID      int64  `json:"order_id" db:"order_id"`
	JobName      string `json:"job_name" db:"job_name"`
	CustomerName string `json:"customer_name" db:"customer_name"`
	SalesPerson  string `json:"sales_person" db:"sales_person"`

	Designer string `json:"designer" db:"designer"`
	Notes    string `json:"notes" db:"notes"`
	// ArtworkRef is an opaque reference to the finished artwork files.
	ArtworkRef string `json:"artwork_ref" db:"artwork_ref"`

	Status Status `json:"status" db:"status"`
	// QuotationID is set once the job has been handed to procurement.
	QuotationID *int64 `json:"quotation_id,omitempty" db:"quotation_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

var (
	ErrNotFound     = errors.New("designjobs: not found")
	ErrValidation   = errors.New("designjobs: invalid input")
	ErrInvalidState = errors.New("designjobs: invalid state transition")
)
