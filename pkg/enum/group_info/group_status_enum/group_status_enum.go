package group_status_enum

// 群组审核状态
const (
	PENDING  = "pending"  // 待审核
	APPROVED = "approved" // 已通过
	REJECTED = "rejected" // 已拒绝
)
