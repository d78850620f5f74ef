package model

import "time"

// 成员角色
const (
	MemberRoleMember int8 = 1
	MemberRoleOwner  int8 = 3
)

// GroupMember 群成员关联表
// (group_uuid, user_uuid) 联合唯一，退群时物理删除以便再次加入
type GroupMember struct {
	ID        uint      `gorm:"primarykey"`
	GroupUuid string    `gorm:"column:group_uuid;type:char(36);uniqueIndex:idx_group_user;not null;comment:群组ID"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(36);uniqueIndex:idx_group_user;index;not null;comment:用户ID"`
	Role      int8      `gorm:"column:role;default:1;comment:1普通成员 3群主"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
