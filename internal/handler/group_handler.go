// Package handler 提供 HTTP 请求处理器
// 本文件处理群组相关的 API 请求
package handler

import (
	"community_server/internal/dto/request"
	"community_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组请求处理器
// 通过构造函数注入 GroupService，遵循依赖倒置原则
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建群组
// POST /group/createGroup
// 请求体: request.CreateGroupRequest
// 响应: respond.GroupInfoRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroup(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroupInfo 更新群组信息
// POST /group/updateGroupInfo
func (h *GroupHandler) UpdateGroupInfo(c *gin.Context) {
	var req request.UpdateGroupInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.UpdateGroupInfo(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteGroup 删除群组（群主或管理员）
// POST /group/deleteGroup
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.DeleteGroup(c.Request.Context(), actorFrom(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetGroupInfo 获取群组详情
// GET /group/getGroupInfo?group_id=xxx 或 ?slug=xxx
func (h *GroupHandler) GetGroupInfo(c *gin.Context) {
	var req request.GetGroupInfoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupInfo(c.Request.Context(), actorFrom(c), req.GroupId, req.Slug)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListGroups 分页获取已通过的群组
// GET /group/list?page=1&page_size=20
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var req request.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.ListGroups(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoadMyGroup 获取我创建的群组
// GET /group/loadMyGroup
func (h *GroupHandler) LoadMyGroup(c *gin.Context) {
	data, err := h.groupSvc.LoadMyGroup(c.Request.Context(), actorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinGroup 加入群组
// POST /group/join
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.JoinGroup(c.Request.Context(), actorFrom(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveGroup 退出群组
// POST /group/leave
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.LeaveGroup(c.Request.Context(), actorFrom(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetGroupMembers 获取群成员列表
// GET /group/memberList?group_id=xxx
func (h *GroupHandler) GetGroupMembers(c *gin.Context) {
	var req request.GroupMemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupMembers(c.Request.Context(), actorFrom(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
