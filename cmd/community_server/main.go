package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community_server/internal/config"
	myredis "community_server/internal/dao/redis"
	"community_server/internal/dao/store"
	"community_server/internal/gateway/websocket"
	"community_server/internal/handler"
	"community_server/internal/https_server"
	"community_server/internal/infrastructure/logger"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/infrastructure/validation"
	"community_server/internal/service"
	"community_server/pkg/constants"
	"community_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf, err := config.Load(config.DefaultPaths...)
	if err != nil {
		log.Printf("load config: %v, falling back to defaults and environment", err)
	}

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化参数校验
	if err := validation.Init(conf.MainConfig.Locale); err != nil {
		zap.L().Fatal("参数校验初始化失败", zap.Error(err))
	}

	// 4. 初始化数据库
	repos, err := store.Init(&conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功", zap.Bool("degraded", repos.Capabilities().Degraded()))

	// 5. 初始化 Redis
	cache, err := myredis.Init(&conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	// 库结构可能已变化，清掉旧的群组详情缓存
	if err := cache.DeleteByPattern(context.Background(), constants.GROUP_INFO_CACHE_PREFIX+"*"); err != nil {
		zap.L().Warn("清理群组缓存失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 7. 审核事件：Broker -> Hub -> 管理员 WebSocket
	hub := websocket.NewHub()
	broker := mq.NewBroker(&conf.KafkaConfig, hub)
	go hub.Start()
	go broker.Start()

	// 8. 初始化 Service 与 Handler (依赖注入)
	svc := service.NewServices(service.Deps{
		Repos:       repos,
		Cache:       cache,
		Events:      broker,
		AdminEmails: conf.AdminConfig.BootstrapEmails,
	})
	handlers := handler.NewHandlers(svc, hub)
	zap.L().Info("Service 层初始化成功")

	// 9. 启动 HTTP 服务
	engine := https_server.Init(&conf.MainConfig, handlers)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	broker.Close()
	hub.Close()
	zap.L().Info("服务器已关闭")
}
