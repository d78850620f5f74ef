package respond

import "time"

// UserInfoRespond 用户资料
type UserInfoRespond struct {
	Uuid      string    `json:"uuid"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
	AvatarUrl string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRespond 登录/注册响应
type LoginRespond struct {
	User         UserInfoRespond `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// TokenRespond 刷新 Token 响应
type TokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
