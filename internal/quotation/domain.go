package quotation

import (
	"errors"
	"time"
)

// Status tracks a quotation through the procurement price-negotiation
// lifecycle.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusInEstimation       Status = "in_estimation"
	StatusQuoted             Status = "quoted"
	StatusProposedToCustomer Status = "proposed_to_customer"
	StatusInProduction       Status = "in_production"
	StatusNeedsMoreInfo      Status = "needs_more_info"
	StatusCancelled          Status = "cancelled"
	// StatusConfirmed is a terminal state used for historical jobs that
	// completed without going through the production pipeline.
	StatusConfirmed Status = "confirmed"
)

// statusLabels carries the customer-facing Thai labels the procurement
// desk works with.
var statusLabels = map[Status]string{
	StatusSubmitted:          "ยื่นคำขอประเมิน",
	StatusInEstimation:       "อยู่ระหว่างการประเมินราคา",
	StatusQuoted:             "เสนอราคา",
	StatusProposedToCustomer: "เสนอลูกค้า",
	StatusInProduction:       "รายการสั่งผลิต",
	StatusNeedsMoreInfo:      "ขอข้อมูลเพิ่มเติม",
	StatusCancelled:          "ยกเลิก",
	StatusConfirmed:          "ยืนยันแล้ว",
}

// Label returns the Thai display label for the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// PreProduction reports whether a quotation in this status can still be
// cancelled.
func (s Status) PreProduction() bool {
	switch s {
	case StatusSubmitted, StatusInEstimation, StatusQuoted, StatusProposedToCustomer, StatusNeedsMoreInfo:
		return true
	}
	return false
}

// ProductionStep is an ordered manufacturing/shipping milestone.
type ProductionStep string

const (
	StepIssuePO           ProductionStep = "ออกใบ PO"
	StepDepositPaid       ProductionStep = "จ่ายมัดจำแล้ว"
	StepProductionStarted ProductionStep = "เริ่มผลิต"
	StepProductionDone    ProductionStep = "ผลิตเสร็จ"
	StepArrivedThailand   ProductionStep = "สินค้าถึงไทย"
)

// ProductionSteps is the fixed milestone sequence.
var ProductionSteps = []ProductionStep{
	StepIssuePO,
	StepDepositPaid,
	StepProductionStarted,
	StepProductionDone,
	StepArrivedThailand,
}

// StepIndex returns the position of step in the sequence, or -1 when
// the step is not part of it.
func StepIndex(step ProductionStep) int {
	for i, s := range ProductionSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// ProductType distinguishes made-to-order goods from catalogue stock.
type ProductType string

const (
	ProductTypeCustom    ProductType = "custom"
	ProductTypeReadymade ProductType = "readymade"
)

// RejectionLog is one append-only entry recording why a quotation was
// sent back for more information.
type RejectionLog struct {
	RejectedAt time.Time `json:"rejected_at" db:"rejected_at"`
	RejectedBy string    `json:"rejected_by" db:"rejected_by"`
	Reason     string    `json:"reason" db:"reason"`
}

// ProductionStepEntry is one append-only entry in the production log.
type ProductionStepEntry struct {
	Step      ProductionStep `json:"step" db:"step"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	UpdatedBy string         `json:"updated_by" db:"updated_by"`
}

// Quotation is one customer job under price negotiation.
type Quotation struct {
	ID      int64  `json:"id" db:"id"`
	JobCode string `json:"job_code" db:"job_code"`
	JobName string `json:"job_name" db:"job_name"`

	CustomerName string      `json:"customer_name" db:"customer_name"`
	SalesPerson  string      `json:"sales_person" db:"sales_person"`
	ProductType  ProductType `json:"product_type" db:"product_type"`

	Material        string   `json:"material" db:"material"`
	Size            string   `json:"size" db:"size"`
	Thickness       string   `json:"thickness" db:"thickness"`
	Colors          []string `json:"colors" db:"colors"`
	FrontDetails    string   `json:"front_details" db:"front_details"`
	BackDetails     string   `json:"back_details" db:"back_details"`
	LanyardSize     string   `json:"lanyard_size" db:"lanyard_size"`
	LanyardPatterns int      `json:"lanyard_patterns" db:"lanyard_patterns"`
	CustomerBudget  float64  `json:"customer_budget" db:"customer_budget"`
	Quantity        int      `json:"quantity" db:"quantity"`

	Factory           *string `json:"factory,omitempty" db:"factory"`
	FactoryLabel      *string `json:"factory_label,omitempty" db:"factory_label"`
	TotalCost         float64 `json:"total_cost" db:"total_cost"`
	TotalSellingPrice float64 `json:"total_selling_price" db:"total_selling_price"`
	Profit            float64 `json:"profit" db:"profit"`

	Status             Status          `json:"status" db:"status"`
	CreatedDate        time.Time       `json:"created_date" db:"created_date"`
	EventDate          time.Time       `json:"event_date" db:"event_date"`
	WinnerFactoryValue *string         `json:"winner_factory_value,omitempty" db:"winner_factory_value"`
	CustomerConfirmed  bool            `json:"customer_confirmed" db:"customer_confirmed"`
	ProductionStep     *ProductionStep `json:"production_step,omitempty" db:"production_step"`

	ProductionStepHistory []ProductionStepEntry `json:"production_step_history" db:"production_step_history"`
	RejectionLogs         []RejectionLog        `json:"rejection_logs" db:"rejection_logs"`
}

// StatusLabel returns the Thai display label for the current status.
func (q *Quotation) StatusLabel() string {
	return q.Status.Label()
}

var (
	// ErrNotFound indicates a missing quotation, session entry, or
	// factory code.
	ErrNotFound = errors.New("quotation: not found")
	// ErrValidation indicates invalid input, e.g. a missing rejection
	// reason or an approval without a selected winner.
	ErrValidation = errors.New("quotation: invalid input")
	// ErrInvalidState occurs when a command is not available in the
	// quotation's current status.
	ErrInvalidState = errors.New("quotation: invalid state transition")
)
