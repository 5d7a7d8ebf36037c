package user

import (
	"context"

	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
)

type Module struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Grant is one module row of a user's permission sheet.
type Grant struct {
	Module  string `json:"module"`
	Label   string `json:"label"`
	Granted bool   `json:"granted"`
}

// RepositoryAPI returns (nil, nil) for lookups that miss.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	UpdateProfile(ctx context.Context, id, name, phone string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id, role string) error
	Modules(ctx context.Context) ([]*userDatamodel.Module, error)
	GetModuleByName(ctx context.Context, name string) (*userDatamodel.Module, error)
	Grants(ctx context.Context, userID string) ([]*userDatamodel.UserModulePermission, error)
	UpsertGrant(ctx context.Context, p *userDatamodel.UserModulePermission) error
}

func moduleFromDataModel(m *userDatamodel.Module) *Module {
	return &Module{ID: m.ID, Name: m.Name, Label: m.Label}
}
