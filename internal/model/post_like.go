package model

import "time"

// PostLike 点赞记录，(post_id, user_id) 联合唯一
type PostLike struct {
	ID        uint      `gorm:"primarykey"`
	PostId    string    `gorm:"column:post_id;type:char(36);uniqueIndex:idx_post_user;not null"`
	UserId    string    `gorm:"column:user_id;type:char(36);uniqueIndex:idx_post_user;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (PostLike) TableName() string {
	return "post_like"
}
