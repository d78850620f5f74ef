package repository

import (
	"context"

	"community_server/internal/model"

	"gorm.io/gorm"
)

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository 创建点赞 Repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, postId, userId string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).Where("post_id = ? AND user_id = ?", postId, userId).Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询点赞")
	}
	return count > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, like *model.PostLike) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return wrapDBError(err, "点赞")
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, postId, userId string) error {
	if err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postId, userId).Delete(&model.PostLike{}).Error; err != nil {
		return wrapDBError(err, "取消点赞")
	}
	return nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postId string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).Where("post_id = ?", postId).Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "统计点赞")
	}
	return count, nil
}

// CountByPosts 批量统计点赞数，未出现的帖子计数为 0
func (r *likeRepository) CountByPosts(ctx context.Context, postIds []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIds))
	if len(postIds) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostId string
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIds).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "批量统计点赞")
	}
	for _, row := range rows {
		counts[row.PostId] = row.Total
	}
	return counts, nil
}

func (r *likeRepository) LikedPostIds(ctx context.Context, userId string, postIds []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIds))
	if userId == "" || len(postIds) == 0 {
		return liked, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userId, postIds).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, wrapDBError(err, "查询用户点赞")
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
