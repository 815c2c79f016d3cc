package orders

import (
	"errors"
	"time"
)

// OrderStatus tracks an order through the intake flow.
type OrderStatus string

const (
	StatusDraft           OrderStatus = "draft"
	StatusSubmitted       OrderStatus = "submitted"
	StatusForwardedDesign OrderStatus = "forwarded_to_design"
)

// Valid reports whether s is a known intake status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusForwardedDesign:
		return true
	}
	return false
}

// ProductCategory is the broad product family an order belongs to.
type ProductCategory string

const (
	CategoryMedal   ProductCategory = "medal"
	CategoryTrophy  ProductCategory = "trophy"
	CategoryApparel ProductCategory = "apparel"
	CategoryPremium ProductCategory = "premium"
)

// Valid reports whether c is a known product category.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryMedal, CategoryTrophy, CategoryApparel, CategoryPremium:
		return true
	}
	return false
}

// ProductType distinguishes made-to-order goods from catalogue stock.
type ProductType string

const (
	ProductTypeCustom    ProductType = "custom"
	ProductTypeReadymade ProductType = "readymade"
)

// Order is one customer request captured by the sales desk before it
// enters design and estimation.
type Order struct {
	ID           int64  `json:"id" db:"id"`
	JobName      string `json:"job_name" db:"job_name"`
	CustomerID   int64  `json:"customer_id" db:"customer_id"`
	CustomerName string `json:"customer_name" db:"customer_name"`
	SalesPerson  string `json:"sales_person" db:"sales_person"`

	ProductType     ProductType     `json:"product_type" db:"product_type"`
	ProductCategory ProductCategory `json:"product_category" db:"product_category"`
	Material        string          `json:"material" db:"material"`
	Size            string          `json:"size" db:"size"`
	Thickness       string          `json:"thickness" db:"thickness"`
	Colors          []string        `json:"colors" db:"colors"`
	FrontDetails    string          `json:"front_details" db:"front_details"`
	BackDetails     string          `json:"back_details" db:"back_details"`
	LanyardSize     string          `json:"lanyard_size" db:"lanyard_size"`
	LanyardPatterns int             `json:"lanyard_patterns" db:"lanyard_patterns"`

	CustomerBudget float64   `json:"customer_budget" db:"customer_budget"`
	Quantity       int       `json:"quantity" db:"quantity"`
	EventDate      time.Time `json:"event_date" db:"event_date"`
	// AttachmentRef is an opaque reference to the customer's design
	// files; upload mechanics live elsewhere.
	AttachmentRef string `json:"attachment_ref" db:"attachment_ref"`

	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

var (
	ErrNotFound     = errors.New("orders: not found")
	ErrValidation   = errors.New("orders: invalid input")
	ErrInvalidState = errors.New("orders: invalid state transition")
)
