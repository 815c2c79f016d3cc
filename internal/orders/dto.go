package orders

import "time"

// CreateOrderRequest is the JSON body for capturing an order.
type CreateOrderRequest struct {
	JobName         string    `json:"job_name" validate:"required,min=1,max=200"`
	CustomerID      int64     `json:"customer_id" validate:"required,gt=0"`
	SalesPerson     string    `json:"sales_person" validate:"required,min=1,max=100"`
	ProductType     string    `json:"product_type" validate:"required,oneof=custom readymade"`
	ProductCategory string    `json:"product_category" validate:"required,oneof=medal trophy apparel premium"`
	Material        string    `json:"material" validate:"max=100"`
	Size            string    `json:"size" validate:"max=100"`
	Thickness       string    `json:"thickness" validate:"max=100"`
	Colors          []string  `json:"colors" validate:"max=20,dive,max=50"`
	FrontDetails    string    `json:"front_details" validate:"max=2000"`
	BackDetails     string    `json:"back_details" validate:"max=2000"`
	LanyardSize     string    `json:"lanyard_size" validate:"max=100"`
	LanyardPatterns int       `json:"lanyard_patterns" validate:"gte=0"`
	CustomerBudget  float64   `json:"customer_budget" validate:"gte=0"`
	Quantity        int       `json:"quantity" validate:"required,gt=0"`
	EventDate       time.Time `json:"event_date"`
	AttachmentRef   string    `json:"attachment_ref" validate:"max=500"`
	Draft           bool      `json:"draft"`
}
