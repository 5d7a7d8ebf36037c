package interaction

type CreateInteractionDTO struct {
	CustomerID      string `json:"customer_id" validate:"required,uuid"`
	Type            string `json:"type" validate:"required,oneof=call email meeting sms chat ticket note"`
	Direction       string `json:"direction" validate:"omitempty,oneof=inbound outbound"`
	Subject         string `json:"subject" validate:"max=300"`
	Description     string `json:"description"`
	Outcome         string `json:"outcome" validate:"max=300"`
	DurationSeconds *int   `json:"duration_seconds" validate:"omitempty,gte=0"`
	OccurredAt      string `json:"occurred_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
