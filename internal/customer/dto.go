package customer

type CreateCustomerDTO struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Phone      string  `json:"phone" validate:"required,max=30"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Company    string  `json:"company" validate:"max=200"`
	Type       string  `json:"type" validate:"omitempty,oneof=individual business"`
	Status     string  `json:"status" validate:"omitempty,oneof=active inactive prospect lead"`
	Segment    string  `json:"segment" validate:"max=100"`
	City       string  `json:"city" validate:"max=100"`
	Address    string  `json:"address" validate:"max=500"`
	Notes      string  `json:"notes"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,uuid"`
}

// UpdateCustomerDTO applies only the fields that are present.
type UpdateCustomerDTO struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone      *string `json:"phone" validate:"omitempty,min=1,max=30"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Company    *string `json:"company" validate:"omitempty,max=200"`
	Type       *string `json:"type" validate:"omitempty,oneof=individual business"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive prospect lead"`
	Segment    *string `json:"segment" validate:"omitempty,max=100"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	Notes      *string `json:"notes"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,uuid"`
}
