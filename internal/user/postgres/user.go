package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
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

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, phone string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "phone": phone}).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *UserRepository) Modules(ctx context.Context) ([]*userDatamodel.Module, error) {
	var mods []*userDatamodel.Module
	if err := r.db.WithContext(ctx).Order("name").Find(&mods).Error; err != nil {
		return nil, err
	}
	return mods, nil
}

func (r *UserRepository) GetModuleByName(ctx context.Context, name string) (*userDatamodel.Module, error) {
	var m userDatamodel.Module
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserRepository) Grants(ctx context.Context, userID string) ([]*userDatamodel.UserModulePermission, error) {
	var rows []*userDatamodel.UserModulePermission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertGrant writes one row per (user, module); an existing row has its flag overwritten.
func (r *UserRepository) UpsertGrant(ctx context.Context, p *userDatamodel.UserModulePermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"granted", "granted_by", "updated_at"}),
		}).
		Create(p).Error
}
