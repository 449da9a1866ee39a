package service

import (
	"testing"
	"time"

	"task-go/internal/config"
	"task-go/internal/dto"
	"task-go/internal/repository"
	"task-go/internal/utils"

	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.Admin.Email = "admin@teste.com"
	cfg.Admin.Name = "Admin"
	cfg.Admin.Password = "senha-admin"

	jwtManager := utils.NewJWTManager("segredo-de-teste", "HS256", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), jwtManager, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	user, err := svc.Register(&dto.RegisterRequest{
		Email:    "ana@teste.com",
		Name:     "Ana",
		Password: "senha123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.IsAdmin {
		t.Error("自助注册的用户不应是管理员")
	}
	if user.PasswordHash == "senha123" {
		t.Error("密码必须以哈希形式存储")
	}

	resp, err := svc.Login(&dto.LoginRequest{Email: "ana@teste.com", Password: "senha123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("登录应签发Token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", resp.TokenType)
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "ana@teste.com", Password: "errada"}); err == nil {
		t.Error("错误密码不应登录成功")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	req := &dto.RegisterRequest{Email: "dup@teste.com", Name: "Dup", Password: "senha123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(req); err == nil {
		t.Error("重复邮箱注册应失败")
	}
}

func TestInitAdminIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	if err := svc.InitAdmin(); err != nil {
		t.Fatalf("InitAdmin() error = %v", err)
	}
	// 第二次调用应跳过而不是报唯一约束冲突
	if err := svc.InitAdmin(); err != nil {
		t.Fatalf("InitAdmin() 第二次调用 error = %v", err)
	}

	admin, err := svc.userRepo.GetByEmail("admin@teste.com")
	if err != nil {
		t.Fatalf("读取管理员失败: %v", err)
	}
	if !admin.IsAdmin || !admin.IsStaff {
		t.Error("初始化的管理员应具备管理标记")
	}

	resp, err := svc.Login(&dto.LoginRequest{Email: "admin@teste.com", Password: "senha-admin"})
	if err != nil {
		t.Fatalf("管理员登录失败: %v", err)
	}
	if !resp.User.IsAdmin {
		t.Error("登录响应应标记管理员身份")
	}
}
