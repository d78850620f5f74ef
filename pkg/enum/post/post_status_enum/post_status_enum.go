package post_status_enum

// 帖子状态
const (
	DRAFT     = "draft"     // 草稿
	PENDING   = "pending"   // 待审核
	PUBLISHED = "published" // 已发布
	REJECTED  = "rejected"  // 已拒绝
)
