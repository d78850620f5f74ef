// Package handler 提供 HTTP 请求处理器
// 本文件处理帖子和点赞相关的 API 请求
package handler

import (
	"community_server/internal/dto/request"
	"community_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler 帖子请求处理器
// 提交审核走 ModerationService，其余操作走 PostService
type PostHandler struct {
	postSvc       service.PostService
	moderationSvc service.ModerationService
}

// NewPostHandler 创建帖子处理器实例
func NewPostHandler(postSvc service.PostService, moderationSvc service.ModerationService) *PostHandler {
	return &PostHandler{postSvc: postSvc, moderationSvc: moderationSvc}
}

// CreatePost 发帖
// POST /post/createPost
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req request.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.postSvc.CreatePost(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdatePost 编辑帖子
// POST /post/updatePost
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req request.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.postSvc.UpdatePost(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeletePost 删除帖子
// POST /post/deletePost
func (h *PostHandler) DeletePost(c *gin.Context) {
	var req request.PostIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.postSvc.DeletePost(c.Request.Context(), actorFrom(c), req.PostId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SubmitPost 草稿提交审核
// POST /post/submit
func (h *PostHandler) SubmitPost(c *gin.Context) {
	var req request.PostIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.moderationSvc.SubmitPost(c.Request.Context(), actorFrom(c), req.PostId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetPost 帖子详情
// GET /post/getPost?post_id=xxx
func (h *PostHandler) GetPost(c *gin.Context) {
	var req request.GetPostRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.postSvc.GetPost(c.Request.Context(), actorFrom(c), req.PostId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListPosts 分页获取已发布帖子
// GET /post/list?group_id=xxx&page=1&page_size=20
func (h *PostHandler) ListPosts(c *gin.Context) {
	var req request.ListPostRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.postSvc.ListPosts(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoadMyPost 我的帖子
// GET /post/loadMyPost
func (h *PostHandler) LoadMyPost(c *gin.Context) {
	data, err := h.postSvc.LoadMyPosts(c.Request.Context(), actorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ToggleLike 点赞 / 取消点赞
// POST /post/toggleLike
func (h *PostHandler) ToggleLike(c *gin.Context) {
	var req request.PostIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.postSvc.ToggleLike(c.Request.Context(), actorFrom(c), req.PostId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
