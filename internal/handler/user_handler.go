package handler

import (
	"community_server/internal/dto/request"
	"community_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户资料请求处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetUserInfo 获取用户资料
// GET /user/getUserInfo?user_id=xxx，不传 user_id 时返回自己的资料
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	userId := c.Query("user_id")
	if userId == "" {
		userId = actorFrom(c).UserID
	}
	data, err := h.userSvc.GetUserInfo(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateUserInfo 修改自己的资料
// POST /user/updateUserInfo
func (h *UserHandler) UpdateUserInfo(c *gin.Context) {
	var req request.UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.UpdateUserInfo(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetUserRole 管理员设置用户角色
// POST /admin/user/setRole
func (h *UserHandler) SetUserRole(c *gin.Context) {
	var req request.SetUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.SetUserRole(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
