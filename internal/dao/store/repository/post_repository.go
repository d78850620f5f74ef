package repository

import (
	"context"
	"time"

	"community_server/internal/model"
	"community_server/pkg/constants"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"gorm.io/gorm"
)

type postRepository struct {
	db   *gorm.DB
	caps Capabilities
}

// NewPostRepository 创建帖子 Repository
func NewPostRepository(db *gorm.DB, caps Capabilities) PostRepository {
	return &postRepository{db: db, caps: caps}
}

// project 降级模式下帖子一律视为已发布，发布时间取创建时间
func (r *postRepository) project(post *model.Post) {
	if r.caps.Degraded() {
		post.Status = post_status_enum.PUBLISHED
		createdAt := post.CreatedAt
		post.PublishedAt = &createdAt
	}
}

// FindByUuid 按 UUID 查找帖子
func (r *postRepository) FindByUuid(ctx context.Context, uuid string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询帖子 uuid=%s", uuid)
	}
	r.project(&post)
	return &post, nil
}

// FindByAuthor 查询作者的全部帖子（任意状态）
func (r *postRepository) FindByAuthor(ctx context.Context, authorId string) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorId).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询帖子 author=%s", authorId)
	}
	for i := range posts {
		r.project(&posts[i])
	}
	return posts, nil
}

// ListPublished 按发布时间倒序分页，只包含已通过群组内的帖子
// 降级模式下没有 published_at 和 status 列，改按创建时间且不过滤群组
func (r *postRepository) ListPublished(ctx context.Context, groupId string, page, pageSize int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64
	offset, limit := normalizePage(page, pageSize, constants.DEFAULT_PAGE_SIZE, constants.MAX_PAGE_SIZE)

	query := r.db.WithContext(ctx).Model(&model.Post{})
	order := "post.created_at DESC, post.id DESC"
	if !r.caps.Degraded() {
		// 所属群组未通过（或已删除）时帖子不公开
		query = query.
			Joins("JOIN group_info ON group_info.uuid = post.group_id AND group_info.status = ? AND group_info.deleted_at IS NULL", group_status_enum.APPROVED).
			Where("post.status = ?", post_status_enum.PUBLISHED)
		order = "post.published_at DESC, post.id DESC"
	}
	if groupId != "" {
		query = query.Where("post.group_id = ?", groupId)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询帖子总数")
	}
	if err := query.Select("post.*").Order(order).Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, wrapDBError(err, "分页查询帖子")
	}
	for i := range posts {
		r.project(&posts[i])
	}
	return posts, total, nil
}

// ListPending 查询待审核帖子，带出作者信息和所属群组名称
func (r *postRepository) ListPending(ctx context.Context) ([]PendingPostRow, error) {
	rows := make([]PendingPostRow, 0)
	if r.caps.Degraded() {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Table("post").
		Select("post.uuid, post.title, post.excerpt, post.group_id, post.author_id, post.created_at, "+
			"group_info.name AS group_name, user_info.full_name AS author_name, user_info.email AS author_email").
		Joins("LEFT JOIN user_info ON user_info.uuid = post.author_id").
		Joins("LEFT JOIN group_info ON group_info.uuid = post.group_id").
		Where("post.status = ? AND post.deleted_at IS NULL", post_status_enum.PENDING).
		Order("post.created_at DESC, post.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "查询待审核帖子")
	}
	return rows, nil
}

// Create 创建帖子，降级模式下不写审核相关列
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	db := r.db.WithContext(ctx)
	if r.caps.Degraded() {
		db = db.Omit("status", "published_at")
	}
	if err := db.Create(post).Error; err != nil {
		return wrapDBError(err, "创建帖子")
	}
	r.project(post)
	return nil
}

// UpdateFields 按字段更新帖子
func (r *postRepository) UpdateFields(ctx context.Context, uuid string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "更新帖子 uuid=%s", uuid)
	}
	return nil
}

// CompareAndSetStatus publishedAt 为 nil 时不改动 published_at
func (r *postRepository) CompareAndSetStatus(ctx context.Context, uuid, from, to string, publishedAt *time.Time) error {
	updates := map[string]interface{}{"status": to}
	if publishedAt != nil {
		updates["published_at"] = *publishedAt
	}
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("uuid = ? AND status = ?", uuid, from).
		Updates(updates)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新帖子状态 uuid=%s", uuid)
	}
	if res.RowsAffected == 0 {
		return errorx.Newf(errorx.CodeConflict, "帖子 uuid=%s 状态已不是 %s", uuid, from)
	}
	return nil
}

// Delete 软删除帖子
func (r *postRepository) Delete(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Post{}).Error; err != nil {
		return wrapDBErrorf(err, "删除帖子 uuid=%s", uuid)
	}
	return nil
}

// DeleteByGroupUuid 软删除群组下的全部帖子
func (r *postRepository) DeleteByGroupUuid(ctx context.Context, groupUuid string) error {
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupUuid).Delete(&model.Post{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组帖子 group=%s", groupUuid)
	}
	return nil
}
