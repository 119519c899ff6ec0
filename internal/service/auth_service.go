package service

import (
	"errors"

	"vidstream/internal/api/dto"
	"vidstream/internal/config"
	"vidstream/internal/model"
	"vidstream/pkg/logger"
	"vidstream/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameExists    = errors.New("username already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUserDeleted       = errors.New("user account has been deleted")
)

// UserStore 用户存储接口，repository.UserRepository 是生产实现
type UserStore interface {
	GetByID(id int64) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	Create(user *model.User) error
	ExistsByUsername(username string) (bool, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register 注册新用户，用户名唯一，角色固定为 user
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.users.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName: req.Username,
		Password: hashed,
		Avatar:   req.Avatar,
		UserRole: model.RoleUser,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.UserName),
	)

	return toUserInfo(user), nil
}

// Login 校验凭证并签发 JWT。
// 用户不存在和密码错误返回同一个错误，不泄露用户名是否注册。
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if user.IsDelete != 0 {
		return nil, ErrInvalidCredential
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in", zap.Int64("user_id", user.ID))

	return &dto.TokenData{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: config.GetJWT().ExpireHours * 3600,
		User:      *toUserInfo(user),
	}, nil
}

// GetCurrentUser 按 Token 中的用户 ID 取当前用户信息
func (s *AuthService) GetCurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsDelete != 0 {
		return nil, ErrUserDeleted
	}

	return toUserInfo(user), nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.UserName,
		Avatar:   user.Avatar,
		UserRole: user.UserRole,
	}
}
