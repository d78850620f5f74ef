package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post 帖子
// PublishedAt 仅在状态为 published 时非空，由审核服务在同一条 UPDATE 中写入
type Post struct {
	gorm.Model
	Uuid        string                      `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:帖子唯一id"`
	Title       string                      `gorm:"column:title;type:varchar(200);not null;comment:标题"`
	Content     string                      `gorm:"column:content;type:text;not null;comment:正文（已过滤的富文本）"`
	Excerpt     string                      `gorm:"column:excerpt;type:varchar(500);comment:摘要"`
	CoverImage  string                      `gorm:"column:cover_image;type:varchar(500);comment:封面图"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags;comment:标签"`
	Status      string                      `gorm:"column:status;type:varchar(16);index;not null;default:draft;comment:状态，draft/pending/published/rejected"`
	AuthorId    string                      `gorm:"column:author_id;type:char(36);index;not null;comment:作者uuid"`
	GroupId     string                      `gorm:"column:group_id;type:char(36);index;not null;comment:所属群组uuid"`
	PublishedAt *time.Time                  `gorm:"column:published_at;comment:发布时间"`
}

func (Post) TableName() string {
	return "post"
}
