package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	*pg.DB
}

func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	entity := toUserEntity(u)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toUserModel(entity), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	return r.first(ctx, "user_name = ?", userName)
}

func (r *UserRepository) GetByUpiID(ctx context.Context, upiID string) (*model.User, error) {
	return r.first(ctx, "upi_id = ?", upiID)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).WithContext(ctx).
		Where(query, arg).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

// List returns all users, or only those with the given role when role is
// not empty.
func (r *UserRepository) List(ctx context.Context, role model.Role) ([]*model.User, error) {
	var entities []*UserEntity
	q := r.Read(ctx).WithContext(ctx).Order("id ASC")
	if role != "" {
		q = q.Where("role = ?", string(role))
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toUserModels(entities), nil
}

func (r *UserRepository) SetKycCompleted(ctx context.Context, id int64, completed bool) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("id = ?", id).
		Update("kyc_completed", completed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Save overwrites the mutable columns of an existing user.
func (r *UserRepository) Save(ctx context.Context, u *model.User) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"role":          string(u.Role),
			"upi_id":        u.UpiID,
			"kyc_completed": u.KycCompleted,
			"customer_id":   u.CustomerID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
