// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理群组相关的数据库操作
package repository

import (
	"context"

	"community_server/internal/model"
	"community_server/pkg/constants"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/errorx"

	"gorm.io/gorm"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db   *gorm.DB
	caps Capabilities
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB, caps Capabilities) GroupRepository {
	return &groupRepository{db: db, caps: caps}
}

// project 降级模式下没有 status 列，读出的群组一律视为已通过
func (r *groupRepository) project(group *model.GroupInfo) {
	if r.caps.Degraded() {
		group.Status = group_status_enum.APPROVED
	}
}

// FindByUuid 根据 UUID 查找群组
func (r *groupRepository) FindByUuid(ctx context.Context, uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.WithContext(ctx).First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 uuid=%s", uuid)
	}
	r.project(&group)
	return &group, nil
}

// FindBySlug 根据 slug 查找群组
func (r *groupRepository) FindBySlug(ctx context.Context, slug string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.WithContext(ctx).First(&group, "slug = ?", slug).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 slug=%s", slug)
	}
	r.project(&group)
	return &group, nil
}

// SlugTaken Unscoped 查询，软删除的群组同样占用 slug
func (r *groupRepository) SlugTaken(ctx context.Context, slug, excludeUuid string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.GroupInfo{}).Where("slug = ?", slug)
	if excludeUuid != "" {
		query = query.Where("uuid <> ?", excludeUuid)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查 slug=%s", slug)
	}
	return count > 0, nil
}

// FindByCreator 查找用户创建的全部群组（任意状态）
func (r *groupRepository) FindByCreator(ctx context.Context, userId string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if err := r.db.WithContext(ctx).Where("created_by = ?", userId).Order("created_at DESC, id DESC").Find(&groups).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 created_by=%s", userId)
	}
	for i := range groups {
		r.project(&groups[i])
	}
	return groups, nil
}

// ListApproved 分页查询已通过的群组
func (r *groupRepository) ListApproved(ctx context.Context, page, pageSize int) ([]model.GroupInfo, int64, error) {
	var groups []model.GroupInfo
	var total int64
	offset, limit := normalizePage(page, pageSize, constants.DEFAULT_PAGE_SIZE, constants.MAX_PAGE_SIZE)

	query := r.db.WithContext(ctx).Model(&model.GroupInfo{})
	if !r.caps.Degraded() {
		query = query.Where("status = ?", group_status_enum.APPROVED)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询群组总数")
	}
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&groups).Error; err != nil {
		return nil, 0, wrapDBError(err, "分页查询群组")
	}
	for i := range groups {
		r.project(&groups[i])
	}
	return groups, total, nil
}

// ListPending 查询待审核群组，LEFT JOIN 用户表带出创建者姓名和邮箱
func (r *groupRepository) ListPending(ctx context.Context) ([]PendingGroupRow, error) {
	rows := make([]PendingGroupRow, 0)
	if r.caps.Degraded() {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Table("group_info").
		Select("group_info.uuid, group_info.name, group_info.slug, group_info.description, group_info.created_by, group_info.created_at, "+
			"user_info.full_name AS author_name, user_info.email AS author_email").
		Joins("LEFT JOIN user_info ON user_info.uuid = group_info.created_by").
		Where("group_info.status = ? AND group_info.deleted_at IS NULL", group_status_enum.PENDING).
		Order("group_info.created_at DESC, group_info.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "查询待审核群组")
	}
	return rows, nil
}

// Create 创建群组，降级模式下不写 status 列
func (r *groupRepository) Create(ctx context.Context, group *model.GroupInfo) error {
	db := r.db.WithContext(ctx)
	if r.caps.Degraded() {
		db = db.Omit("status")
	}
	if err := db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	r.project(group)
	return nil
}

// UpdateFields 按字段更新群组信息
func (r *groupRepository) UpdateFields(ctx context.Context, uuid string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.GroupInfo{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "更新群组 uuid=%s", uuid)
	}
	return nil
}

// CompareAndSetStatus 单行条件更新，影响行数为 0 说明状态已被并发修改
func (r *groupRepository) CompareAndSetStatus(ctx context.Context, uuid, from, to string) error {
	res := r.db.WithContext(ctx).Model(&model.GroupInfo{}).
		Where("uuid = ? AND status = ?", uuid, from).
		Update("status", to)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新群组状态 uuid=%s", uuid)
	}
	if res.RowsAffected == 0 {
		return errorx.Newf(errorx.CodeConflict, "群组 uuid=%s 状态已不是 %s", uuid, from)
	}
	return nil
}

// Delete 软删除群组
func (r *groupRepository) Delete(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.GroupInfo{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组 uuid=%s", uuid)
	}
	return nil
}
