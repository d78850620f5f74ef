// Package store 负责建立数据库连接、按配置迁移表结构、探测存储能力并初始化 Repository 层
package store

import (
	"fmt"
	"time"

	"community_server/internal/config"
	"community_server/internal/dao/store/repository"
	"community_server/internal/infrastructure/logger"
	"community_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Models 参与迁移的全部表
var Models = []interface{}{
	&model.UserInfo{},
	&model.GroupInfo{},
	&model.GroupMember{},
	&model.Post{},
	&model.PostLike{},
	&model.Comment{},
}

// Open 根据 driver 选择方言建立连接
// TranslateError 打开后唯一键冲突会被翻译为 gorm.ErrDuplicatedKey
func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(conf)
	if err != nil {
		return nil, err
	}
	slow := time.Duration(conf.SlowThreshold) * time.Millisecond
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(slow, gormLogger.Warn),
	})
}

func dialectorFor(conf *config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "postgres", "":
		dsn := conf.DSN
		if dsn == "" {
			sslMode := conf.SSLMode
			if sslMode == "" {
				sslMode = "require"
			}
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
				conf.Host, conf.Port, conf.User, conf.Password, conf.DatabaseName, sslMode)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := conf.DSN
		if dsn == "" {
			// 格式：user:password@tcp(host:port)/database?params
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := conf.DSN
		if dsn == "" {
			dsn = conf.Path
		}
		if dsn == "" {
			dsn = "community.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

// Migrate 自动迁移表结构，只新增表和字段，不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

// DetectCapabilities 检查审核字段是否存在
// 群组 status、帖子 status 和 published_at 三列齐全才启用审核流转
func DetectCapabilities(db *gorm.DB) repository.Capabilities {
	m := db.Migrator()
	has := m.HasColumn(&model.GroupInfo{}, "status") &&
		m.HasColumn(&model.Post{}, "status") &&
		m.HasColumn(&model.Post{}, "published_at")
	return repository.Capabilities{HasStatusColumn: has}
}

// Init 初始化数据库连接并返回 Repository 层实例
//  1. 按配置选择驱动建立连接
//  2. 配置开启时执行 AutoMigrate
//  3. 探测存储能力，缺少审核字段时进入降级模式
func Init(conf *config.DatabaseConfig) (*repository.Repositories, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	caps := DetectCapabilities(db)
	if caps.Degraded() {
		zap.L().Warn("moderation columns missing, running in degraded mode: groups read as approved, posts as published, transitions disabled")
	} else {
		zap.L().Info("database ready", zap.String("driver", conf.Driver))
	}
	return repository.NewRepositories(db, caps), nil
}
