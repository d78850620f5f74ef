// Package handler 提供 HTTP 请求处理器
// 本文件处理审核事件 WebSocket 连接
package handler

import (
	"community_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
)

// WsHandler 审核事件推送处理器
type WsHandler struct {
	hub *websocket.Hub
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(hub *websocket.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Moderation 管理员订阅审核事件
// GET /ws/moderation
// 连接建立后服务端推送 mq.ModerationEvent 的 JSON，客户端无需发送消息
func (h *WsHandler) Moderation(c *gin.Context) {
	websocket.NewClientInit(c, h.hub, actorFrom(c).UserID)
}
