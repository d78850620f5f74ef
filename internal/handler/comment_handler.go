package handler

import (
	"community_server/internal/dto/request"
	"community_server/internal/service"

	"github.com/gin-gonic/gin"
)

// CommentHandler 评论请求处理器
type CommentHandler struct {
	commentSvc service.CommentService
}

// NewCommentHandler 创建评论处理器实例
func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// Create 发表评论
// POST /comment/create
func (h *CommentHandler) Create(c *gin.Context) {
	var req request.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.commentSvc.CreateComment(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Update 编辑评论
// POST /comment/update
func (h *CommentHandler) Update(c *gin.Context) {
	var req request.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.commentSvc.UpdateComment(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Delete 删除评论及其回复
// POST /comment/delete
func (h *CommentHandler) Delete(c *gin.Context) {
	var req request.CommentIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.commentSvc.DeleteComment(c.Request.Context(), actorFrom(c), req.CommentId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Tree 帖子评论树
// GET /comment/tree?post_id=xxx
func (h *CommentHandler) Tree(c *gin.Context) {
	var req request.CommentTreeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.commentSvc.GetCommentTree(c.Request.Context(), actorFrom(c), req.PostId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
