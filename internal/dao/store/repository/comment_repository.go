package repository

import (
	"context"

	"community_server/internal/model"

	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论 Repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) FindByUuid(ctx context.Context, uuid string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询评论 uuid=%s", uuid)
	}
	return &comment, nil
}

// FindByPost 同一时间戳的评论按自增 id 保持插入顺序
func (r *commentRepository) FindByPost(ctx context.Context, postId string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postId).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询评论 post=%s", postId)
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return wrapDBError(err, "创建评论")
	}
	return nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, uuid, content string) error {
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("uuid = ?", uuid).Update("content", content).Error; err != nil {
		return wrapDBErrorf(err, "更新评论 uuid=%s", uuid)
	}
	return nil
}

// DeleteByUuids 软删除一组评论
func (r *commentRepository) DeleteByUuids(ctx context.Context, uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Delete(&model.Comment{}).Error; err != nil {
		return wrapDBError(err, "删除评论")
	}
	return nil
}
