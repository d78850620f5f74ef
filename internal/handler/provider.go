// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"community_server/internal/gateway/websocket"
	"community_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Group      *GroupHandler
	Post       *PostHandler
	Comment    *CommentHandler
	Moderation *ModerationHandler
	Ws         *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, hub *websocket.Hub) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.User),
		User:       NewUserHandler(svc.User),
		Group:      NewGroupHandler(svc.Group),
		Post:       NewPostHandler(svc.Post, svc.Moderation),
		Comment:    NewCommentHandler(svc.Comment),
		Moderation: NewModerationHandler(svc.Moderation, svc.Notification),
		Ws:         NewWsHandler(hub),
	}
}
