// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"community_server/internal/config"
	"community_server/internal/handler"
	"community_server/internal/infrastructure/logger"
	"community_server/internal/infrastructure/middleware"
	"community_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP 服务器并返回 Gin 引擎实例
// 配置顺序：日志与恢复中间件 -> CORS -> 可选的 TLS 重定向 -> 业务路由
func Init(conf *config.MainConfig, handlers *handler.Handlers) *gin.Engine {
	if conf.Mode != "dev" && conf.Mode != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建空白 Gin 引擎（不使用 gin.Default() 以便完全控制中间件）
	engine := gin.New()

	// 自定义 Zap 日志中间件，替代 Gin 默认的日志
	engine.Use(logger.GinLogger())
	// Panic 恢复中间件，日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	// 配置 CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 允许所有来源（生产环境应指定具体域名）
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 等反向代理处理 SSL 时保持关闭
	if conf.ForceTLS {
		engine.Use(middleware.TlsHandler(conf.Host, conf.Port))
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
