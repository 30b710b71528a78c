package dto

// ── 认证 ──

// LoginRequest 登录请求
type LoginRequest struct {
	Username   string `json:"username"   binding:"required,max=100"`
	Password   string `json:"password"   binding:"required,max=72"`
	RememberMe bool   `json:"rememberMe"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse 登录/刷新返回的 Token 对
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"` // access token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息（不含凭据）
type UserResponse struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID *int32 `json:"employeeId,omitempty"`
}
