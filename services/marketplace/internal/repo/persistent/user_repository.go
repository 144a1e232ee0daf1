package persistent

import (
	"context"
	"strings"
	"time"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}
	userModel.Email = strings.ToLower(userModel.Email)

	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&userModel).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Update("verified_badge", verified)
	return requireAffected(res, "user")
}

func (r *userRepository) SetVIP(ctx context.Context, id string, vip bool, expiry *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"vip_status": vip,
		"vip_expiry": expiry,
	})
	return requireAffected(res, "user")
}

func (r *userRepository) SetRole(ctx context.Context, id string, role entity.Role) error {
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Update("role", string(role))
	return requireAffected(res, "user")
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	return requireAffected(res, "user")
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).Count(&count).Error
	return count, err
}
