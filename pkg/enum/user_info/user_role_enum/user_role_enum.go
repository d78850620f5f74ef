package user_role_enum

const (
	ADMIN  = "admin"
	MEMBER = "member"
)
