// Package storetest 为各层测试提供基于内存 sqlite 的 Repository
package storetest

import (
	"testing"
	"time"

	"community_server/internal/dao/store"
	"community_server/internal/dao/store/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// legacyGroupInfo 迁移审核字段之前的群组表结构
type legacyGroupInfo struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(36);not null"`
	Name        string `gorm:"column:name;type:varchar(100);not null"`
	Slug        string `gorm:"column:slug;uniqueIndex;type:varchar(100);not null"`
	Description string `gorm:"column:description;type:varchar(1000)"`
	CoverImage  string `gorm:"column:cover_image;type:varchar(500)"`
	CreatedBy   string `gorm:"column:created_by;type:char(36);not null"`
}

func (legacyGroupInfo) TableName() string { return "group_info" }

// legacyPost 迁移审核字段之前的帖子表结构
type legacyPost struct {
	gorm.Model
	Uuid       string                      `gorm:"column:uuid;uniqueIndex;type:char(36);not null"`
	Title      string                      `gorm:"column:title;type:varchar(200);not null"`
	Content    string                      `gorm:"column:content;type:text;not null"`
	Excerpt    string                      `gorm:"column:excerpt;type:varchar(500)"`
	CoverImage string                      `gorm:"column:cover_image;type:varchar(500)"`
	Tags       datatypes.JSONSlice[string] `gorm:"column:tags"`
	AuthorId   string                      `gorm:"column:author_id;type:char(36);not null"`
	GroupId    string                      `gorm:"column:group_id;type:char(36);not null"`
}

func (legacyPost) TableName() string { return "post" }

// Open 打开独立的内存数据库
// 连接数限制为 1，事务回调内不能再使用外层连接
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// New 返回完整迁移后的 Repository
func New(t testing.TB) *repository.Repositories {
	t.Helper()
	db := Open(t)
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewRepositories(db, store.DetectCapabilities(db))
}

// NewDegraded 返回缺少审核字段的旧表结构上的 Repository
func NewDegraded(t testing.TB) *repository.Repositories {
	t.Helper()
	db := Open(t)
	for _, m := range store.Models {
		if err := db.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	// 用旧结构重建群组和帖子表
	if err := db.Migrator().DropTable("group_info", "post"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := db.AutoMigrate(&legacyGroupInfo{}, &legacyPost{}); err != nil {
		t.Fatalf("migrate legacy: %v", err)
	}
	return repository.NewRepositories(db, store.DetectCapabilities(db))
}
