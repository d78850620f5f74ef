// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册审核事件推送路由（需要管理员）
// 请求示例: ws://host:port/ws/moderation?token=<access token>
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/moderation", rt.handlers.Ws.Moderation)
}
