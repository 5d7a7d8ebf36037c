package deal

type CreateDealDTO struct {
	CustomerID        string  `json:"customer_id" validate:"required,uuid"`
	Title             string  `json:"title" validate:"required,max=200"`
	Value             int64   `json:"value" validate:"gte=0"`
	Stage             string  `json:"stage" validate:"omitempty,oneof=new qualified proposal negotiation won lost"`
	Probability       *int    `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate string  `json:"expected_close_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             string  `json:"notes"`
	AssignedTo        *string `json:"assigned_to" validate:"omitempty,uuid"`
}

type UpdateDealDTO struct {
	Title             *string `json:"title" validate:"omitempty,max=200"`
	Value             *int64  `json:"value" validate:"omitempty,gte=0"`
	Probability       *int    `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate *string `json:"expected_close_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             *string `json:"notes"`
	AssignedTo        *string `json:"assigned_to" validate:"omitempty,uuid"`
}

type StageDTO struct {
	Stage string `json:"stage" validate:"required,oneof=new qualified proposal negotiation won lost"`
}
