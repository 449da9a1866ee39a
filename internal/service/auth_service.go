package service

import (
	"errors"
	"fmt"

	"task-go/internal/config"
	"task-go/internal/dto"
	"task-go/internal/models"
	"task-go/internal/repository"
	"task-go/internal/utils"
)

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *utils.JWTManager
	cfg        *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, jwtManager *utils.JWTManager, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cfg:        cfg,
	}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	// 验证邮箱是否已注册
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}
	if exists {
		return nil, errors.New("邮箱已注册")
	}

	// 哈希密码
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	// 创建用户
	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsAdmin:      false,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return user, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 获取用户
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("邮箱或密码错误")
	}

	// 验证密码
	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, errors.New("邮箱或密码错误")
	}

	// 检查用户是否激活
	if !user.IsActive {
		return nil, errors.New("用户已被禁用")
	}

	// 生成Token
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        newUserInfo(user),
	}, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(userID uint) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("用户不存在")
	}

	info := newUserInfo(user)
	return &info, nil
}

// InitAdmin 初始化管理员账户，已存在时跳过
func (s *AuthService) InitAdmin() error {
	exists, err := s.userRepo.ExistsByEmail(s.cfg.Admin.Email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashedPassword, err := utils.HashPassword(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        s.cfg.Admin.Email,
		Name:         s.cfg.Admin.Name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsStaff:      true,
		IsAdmin:      true,
	}

	return s.userRepo.Create(admin)
}

func newUserInfo(user *models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		IsActive: user.IsActive,
		IsStaff:  user.IsStaff,
		IsAdmin:  user.IsAdmin,
	}
}
