package request

// CreateGroupRequest 创建群组请求
// Status 为空时按角色决定：管理员直接 approved，普通用户 pending
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"required,slug,max=100"`
	Description string `json:"description" binding:"max=1000"`
	CoverImage  string `json:"cover_image" binding:"omitempty,url,max=500"`
	Status      string `json:"status" binding:"omitempty,oneof=pending approved"`
}

// UpdateGroupInfoRequest 编辑群组信息，不涉及审核状态
type UpdateGroupInfoRequest struct {
	GroupId     string  `json:"group_id" binding:"required"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" binding:"omitempty,slug,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	CoverImage  *string `json:"cover_image" binding:"omitempty,url,max=500"`
}

// GroupIdRequest 只携带群组 id 的请求（删除、加入、退出）
type GroupIdRequest struct {
	GroupId string `json:"group_id" binding:"required"`
}

// GetGroupInfoRequest 按 id 或 slug 查询群组
type GetGroupInfoRequest struct {
	GroupId string `form:"group_id" binding:"required_without=Slug"`
	Slug    string `form:"slug" binding:"omitempty,slug"`
}

// PageRequest 分页参数
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GroupTransitionRequest 管理员审核群组
type GroupTransitionRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=approved rejected"`
}

// GroupMemberListRequest 查询群成员
type GroupMemberListRequest struct {
	GroupId string `form:"group_id" binding:"required"`
}
