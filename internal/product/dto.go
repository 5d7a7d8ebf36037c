package product

type CreateProductDTO struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
}

type UpdateProductDTO struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}
