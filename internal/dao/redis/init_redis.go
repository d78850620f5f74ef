// Package redis 本文件包含 Redis 连接初始化逻辑
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"strconv"
	"time"

	"community_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 初始化 Redis 连接并返回缓存服务
// 未配置 host 时使用进程内缓存，便于单机开发
func Init(conf *config.RedisConfig) (AsyncCacheService, error) {
	if conf.Host == "" {
		zap.L().Warn("redis host not configured, using in-memory cache")
		return NewMemoryCache(), nil
	}

	// 拼接地址：host:port
	addr := conf.Host + ":" + strconv.Itoa(conf.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     50,
		MinIdleConns: conf.Workers,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCache(client, conf.Workers, conf.TaskQueue), nil
}
