package repository

import (
	"context"

	"community_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository 创建群成员 Repository
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// Find 查找成员关系
func (r *groupMemberRepository) Find(ctx context.Context, groupUuid, userUuid string) (*model.GroupMember, error) {
	var member model.GroupMember
	if err := r.db.WithContext(ctx).First(&member, "group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group=%s user=%s", groupUuid, userUuid)
	}
	return &member, nil
}

// Create 添加成员，(group_uuid, user_uuid) 冲突时忽略
func (r *groupMemberRepository) Create(ctx context.Context, member *model.GroupMember) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error; err != nil {
		return wrapDBError(err, "添加群成员")
	}
	return nil
}

// Delete 删除成员关系（物理删除）
func (r *groupMemberRepository) Delete(ctx context.Context, groupUuid, userUuid string) error {
	if err := r.db.WithContext(ctx).Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBError(err, "删除群成员")
	}
	return nil
}

// DeleteByGroupUuid 删除群组的所有成员
func (r *groupMemberRepository) DeleteByGroupUuid(ctx context.Context, groupUuid string) error {
	if err := r.db.WithContext(ctx).Where("group_uuid = ?", groupUuid).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBError(err, "删除群组成员")
	}
	return nil
}

// FindMembersWithUserInfo 查询群成员及其资料（JOIN 查询）
func (r *groupMemberRepository) FindMembersWithUserInfo(ctx context.Context, groupUuid string) ([]GroupMemberWithUserInfo, error) {
	members := make([]GroupMemberWithUserInfo, 0)
	if err := r.db.WithContext(ctx).Table("group_member").
		Select("group_member.user_uuid AS user_id, user_info.full_name, user_info.avatar_url, group_member.role, group_member.created_at").
		Joins("LEFT JOIN user_info ON user_info.uuid = group_member.user_uuid").
		Where("group_member.group_uuid = ?", groupUuid).
		Order("group_member.role DESC, group_member.created_at ASC").
		Scan(&members).Error; err != nil {
		return nil, wrapDBError(err, "查询群成员列表")
	}
	return members, nil
}

// CountByGroup 统计群成员数
func (r *groupMemberRepository) CountByGroup(ctx context.Context, groupUuid string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.GroupMember{}).Where("group_uuid = ?", groupUuid).Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "统计群成员")
	}
	return count, nil
}

// CountByGroups 批量统计群成员数，未出现的群组计数为 0
func (r *groupMemberRepository) CountByGroups(ctx context.Context, groupUuids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(groupUuids))
	if len(groupUuids) == 0 {
		return counts, nil
	}
	var rows []struct {
		GroupUuid string
		Total     int64
	}
	if err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Select("group_uuid, COUNT(*) AS total").
		Where("group_uuid IN ?", groupUuids).
		Group("group_uuid").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "批量统计群成员")
	}
	for _, row := range rows {
		counts[row.GroupUuid] = row.Total
	}
	return counts, nil
}
