package ticket

type CreateTicketDTO struct {
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	Subject     string  `json:"subject" validate:"required,max=300"`
	Description string  `json:"description"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Category    string  `json:"category" validate:"max=100"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,uuid"`
}

type UpdateTicketDTO struct {
	Subject     *string `json:"subject" validate:"omitempty,max=300"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
}

type StatusDTO struct {
	Status string `json:"status" validate:"required,oneof=open in_progress waiting resolved closed"`
}

type AssignDTO struct {
	AssignedTo string `json:"assigned_to" validate:"required,uuid"`
}
