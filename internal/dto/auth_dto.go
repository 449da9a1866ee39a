package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"nome" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求，以邮箱作为登录标识
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"nome"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
	IsAdmin  bool   `json:"is_admin"`
}
