package customers

// CreateCustomerRequest is the JSON body for registering a customer.
type CreateCustomerRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Phone         string `json:"phone" validate:"max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
	LineID        string `json:"line_id" validate:"max=100"`
	Address       string `json:"address" validate:"max=500"`
	Notes         string `json:"notes" validate:"max=2000"`
}
