package respond

import "time"

// GroupInfoRespond 群组详情，也作为缓存内容
type GroupInfoRespond struct {
	Uuid        string    `json:"uuid"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	MemberCnt   int64     `json:"member_cnt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupListRespond 分页群组列表
type GroupListRespond struct {
	List  []GroupInfoRespond `json:"list"`
	Total int64              `json:"total"`
}

// GroupMemberRespond 群成员
type GroupMemberRespond struct {
	UserId    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarUrl string    `json:"avatar_url"`
	Role      int8      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}
