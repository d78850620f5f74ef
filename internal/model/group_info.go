// Package model 定义数据库实体模型
package model

import (
	"gorm.io/gorm"
)

// GroupInfo 主题群组
// Slug 唯一索引覆盖软删除记录，保证任何状态下都不会重复
type GroupInfo struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:群组唯一id"`
	Name        string `gorm:"column:name;type:varchar(100);not null;comment:群名称"`
	Slug        string `gorm:"column:slug;uniqueIndex;type:varchar(100);not null;comment:URL 标识"`
	Description string `gorm:"column:description;type:varchar(1000);comment:群简介"`
	CoverImage  string `gorm:"column:cover_image;type:varchar(500);comment:封面图"`
	Status      string `gorm:"column:status;type:varchar(16);index;not null;default:pending;comment:审核状态，pending/approved/rejected"`
	CreatedBy   string `gorm:"column:created_by;type:char(36);index;not null;comment:创建者uuid"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
