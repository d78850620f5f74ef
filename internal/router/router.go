// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"community_server/internal/handler"
	"community_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 公开接口挂在 OptionalJWT 下，登录用户可看到自己未发布的内容；
// 其余接口要求登录，/admin 与 /ws 额外要求管理员角色
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	public := r.Group("/", middleware.OptionalJWT())
	rt.RegisterPublicRoutes(public)

	authed := r.Group("/", middleware.JWTAuth())
	rt.RegisterAuthRoutes(authed)
	rt.RegisterUserRoutes(authed)
	rt.RegisterGroupRoutes(authed)
	rt.RegisterPostRoutes(authed)
	rt.RegisterCommentRoutes(authed)

	admin := r.Group("/", middleware.JWTAuth(), middleware.AdminOnly())
	rt.RegisterAdminRoutes(admin)
	rt.RegisterWebSocketRoutes(admin)
}
