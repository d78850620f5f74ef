package entity_type_enum

// 参与审核流程的实体类型
const (
	GROUP = "group"
	POST  = "post"
)
