package request

// UpdateUserInfoRequest 更新个人资料，nil 字段保持不变
type UpdateUserInfoRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarUrl *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// SetUserRoleRequest 管理员设置用户角色
type SetUserRoleRequest struct {
	UserId string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=admin member"`
}
