package model

import (
	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 用户唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:用户唯一id"`

	// Email 登录邮箱
	Email string `gorm:"column:email;uniqueIndex;type:varchar(255);not null;comment:邮箱"`

	FullName  string `gorm:"column:full_name;type:varchar(100);not null;comment:姓名"`
	Bio       string `gorm:"column:bio;type:varchar(500);comment:个人简介"`
	AvatarUrl string `gorm:"column:avatar_url;type:varchar(500);comment:头像"`

	// Password 密码（已哈希）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Role 角色，admin / member，决定所有审核操作的权限
	Role string `gorm:"column:role;type:varchar(16);not null;default:member;comment:角色"`

	// RawPassword 明文密码（不存入数据库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：在创建和更新前将 RawPassword 加密后存入 Password 字段
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
