package postgres

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// HasGrant reports whether a granted row joins the user to the named module.
func (r *Repository) HasGrant(ctx context.Context, userID, module string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Raw(`
SELECT EXISTS (
  SELECT 1
  FROM user_module_permissions ump
  JOIN modules m ON m.id = ump.module_id
  WHERE ump.user_id = ? AND m.name = ? AND ump.granted = ?
)`, userID, module, true).Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}
