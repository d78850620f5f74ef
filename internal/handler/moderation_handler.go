// Package handler 提供 HTTP 请求处理器
// 本文件处理管理员审核与待审核列表相关的 API 请求
package handler

import (
	"community_server/internal/dto/request"
	"community_server/internal/service"
	"community_server/pkg/enum/entity/entity_type_enum"

	"github.com/gin-gonic/gin"
)

// ModerationHandler 审核请求处理器
type ModerationHandler struct {
	moderationSvc   service.ModerationService
	notificationSvc service.NotificationService
}

// NewModerationHandler 创建审核处理器实例
func NewModerationHandler(moderationSvc service.ModerationService, notificationSvc service.NotificationService) *ModerationHandler {
	return &ModerationHandler{moderationSvc: moderationSvc, notificationSvc: notificationSvc}
}

// GroupTransition 通过或拒绝群组
// POST /admin/group/transition
// 请求体: request.GroupTransitionRequest
// 响应: respond.GroupInfoRespond
func (h *ModerationHandler) GroupTransition(c *gin.Context) {
	var req request.GroupTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.moderationSvc.RequestGroupTransition(c.Request.Context(), actorFrom(c), req.GroupId, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PostTransition 发布或拒绝帖子
// POST /admin/post/transition
// 请求体: request.PostTransitionRequest
// 响应: respond.PostRespond
func (h *ModerationHandler) PostTransition(c *gin.Context) {
	var req request.PostTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.moderationSvc.RequestPostTransition(c.Request.Context(), actorFrom(c), req.PostId, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PendingGroups 待审核群组
// GET /admin/notification/pendingGroups
func (h *ModerationHandler) PendingGroups(c *gin.Context) {
	h.listPending(c, entity_type_enum.GROUP)
}

// PendingPosts 待审核帖子
// GET /admin/notification/pendingPosts
func (h *ModerationHandler) PendingPosts(c *gin.Context) {
	h.listPending(c, entity_type_enum.POST)
}

func (h *ModerationHandler) listPending(c *gin.Context, entityType string) {
	data, err := h.notificationSvc.ListPending(c.Request.Context(), actorFrom(c), entityType)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
