package user

type ProfileDTO struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

type PasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type RoleDTO struct {
	Role string `json:"role" validate:"required"`
}

type GrantDTO struct {
	Module  string `json:"module" validate:"required"`
	Granted *bool  `json:"granted" validate:"required"`
}
