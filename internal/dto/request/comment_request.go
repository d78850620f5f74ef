package request

// CreateCommentRequest 发表评论，ParentId 为空表示顶层评论
type CreateCommentRequest struct {
	PostId   string `json:"post_id" binding:"required"`
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentId string `json:"parent_id"`
}

// UpdateCommentRequest 编辑评论
type UpdateCommentRequest struct {
	CommentId string `json:"comment_id" binding:"required"`
	Content   string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentIdRequest 删除评论
type CommentIdRequest struct {
	CommentId string `json:"comment_id" binding:"required"`
}

// CommentTreeRequest 查询帖子评论树
type CommentTreeRequest struct {
	PostId string `form:"post_id" binding:"required"`
}
