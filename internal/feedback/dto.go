package feedback

type CreateFeedbackDTO struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,oneof=csat nps ces complaint suggestion praise"`
	Score      *int   `json:"score"`
	Comment    string `json:"comment" validate:"max=5000"`
	Channel    string `json:"channel" validate:"omitempty,oneof=web phone email sms in_person chat"`
}

type StatusDTO struct {
	Status string `json:"status" validate:"required,oneof=new reviewed actioned"`
}
