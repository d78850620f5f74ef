package model

import "gorm.io/gorm"

// Comment 评论，ParentId 指向同一帖子下的父评论，形成不限深度的树
type Comment struct {
	gorm.Model
	Uuid     string  `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:评论唯一id"`
	Content  string  `gorm:"column:content;type:varchar(2000);not null;comment:评论内容"`
	PostId   string  `gorm:"column:post_id;type:char(36);index;not null;comment:帖子uuid"`
	AuthorId string  `gorm:"column:author_id;type:char(36);index;not null;comment:作者uuid"`
	ParentId *string `gorm:"column:parent_id;type:char(36);index;comment:父评论uuid"`
}

func (Comment) TableName() string {
	return "comment"
}
