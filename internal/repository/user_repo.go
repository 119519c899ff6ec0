package repository

import (
	"vidstream/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 查询用户（排除已删除）
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ? AND is_delete = 0", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名查询用户（排除已删除）
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_name = ? AND is_delete = 0", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// ExistsByUsername 检查用户名是否已存在
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("user_name = ? AND is_delete = 0", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RoleOf 查询用户角色（权限校验用）
func (r *UserRepository) RoleOf(id int64) (string, error) {
	var user model.User
	err := r.db.Select("user_role").Where("id = ? AND is_delete = 0", id).First(&user).Error
	if err != nil {
		return "", err
	}
	return user.UserRole, nil
}
