package quotation

import "time"

type CreateQuotationRequest struct {
	JobName          string    `json:"job_name" validate:"required,max=200"`
	CustomerName     string    `json:"customer_name" validate:"required,max=200"`
	SalesPerson      string    `json:"sales_person" validate:"required,max=100"`
	ProductType      string    `json:"product_type" validate:"required,oneof=custom readymade"`
	Material         string    `json:"material" validate:"max=100"`
	Size             string    `json:"size" validate:"max=50"`
	Thickness        string    `json:"thickness" validate:"max=50"`
	Colors           []string  `json:"colors" validate:"dive,max=50"`
	FrontDetails     string    `json:"front_details" validate:"max=2000"`
	BackDetails      string    `json:"back_details" validate:"max=2000"`
	LanyardSize      string    `json:"lanyard_size" validate:"max=50"`
	LanyardPatterns  int       `json:"lanyard_patterns" validate:"gte=0"`
	CustomerBudget   float64   `json:"customer_budget" validate:"gte=0"`
	Quantity         int       `json:"quantity" validate:"required,gt=0"`
	EventDate        time.Time `json:"event_date" validate:"required"`
	PreferredFactory string    `json:"preferred_factory,omitempty"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

type AddEntryRequest struct {
	FactoryCode string `json:"factory_code" validate:"required"`
}

type UpdateEntryFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=unit_cost mold_cost mold_cost_additional_thb factory_value"`
	// Value carries a number for cost fields or a factory code string
	// for factory_value.
	Value any `json:"value" validate:"required"`
}

type UpdateHeaderFieldRequest struct {
	Field string  `json:"field" validate:"required,oneof=shipping_cost_rmb exchange_rate vat_percent quantity unit_selling_price_thb lanyard_selling_price_thb"`
	Value float64 `json:"value" validate:"gte=0"`
}

type AttachEvidenceRequest struct {
	FileRef string `json:"file_ref" validate:"required,max=500"`
}

type AdvanceStepRequest struct {
	Step string `json:"step" validate:"required"`
}
