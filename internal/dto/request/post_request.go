package request

// CreatePostRequest 发帖请求，Status 只能是 draft 或 pending，为空时按 draft 处理
type CreatePostRequest struct {
	GroupId    string   `json:"group_id" binding:"required"`
	Title      string   `json:"title" binding:"required,min=1,max=200"`
	Content    string   `json:"content" binding:"required,min=1"`
	Excerpt    string   `json:"excerpt" binding:"max=500"`
	CoverImage string   `json:"cover_image" binding:"omitempty,url,max=500"`
	Tags       []string `json:"tags" binding:"max=10,dive,min=1,max=30"`
	Status     string   `json:"status" binding:"omitempty,oneof=draft pending"`
}

// UpdatePostRequest 编辑帖子，nil 字段保持不变
type UpdatePostRequest struct {
	PostId     string   `json:"post_id" binding:"required"`
	Title      *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Content    *string  `json:"content" binding:"omitempty,min=1"`
	Excerpt    *string  `json:"excerpt" binding:"omitempty,max=500"`
	CoverImage *string  `json:"cover_image" binding:"omitempty,url,max=500"`
	Tags       []string `json:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
}

// PostIdRequest 只携带帖子 id 的请求（删除、提交审核、点赞）
type PostIdRequest struct {
	PostId string `json:"post_id" binding:"required"`
}

// GetPostRequest 查询帖子详情
type GetPostRequest struct {
	PostId string `form:"post_id" binding:"required"`
}

// ListPostRequest 分页查询已发布帖子，GroupId 为空时查询全部群组
type ListPostRequest struct {
	GroupId  string `form:"group_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PostTransitionRequest 管理员审核帖子
type PostTransitionRequest struct {
	PostId string `json:"post_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=published rejected"`
}
