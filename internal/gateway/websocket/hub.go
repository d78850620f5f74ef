// Package websocket 管理管理员的审核事件推送连接
package websocket

import (
	"sync"

	"community_server/pkg/constants"

	"go.uber.org/zap"
)

// Hub 维护所有在线的管理员连接
// 同一管理员可以同时打开多个连接，按连接对象区分
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	Login   chan *Client
	Logout  chan *Client
	done    chan struct{}
	once    sync.Once
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		Login:   make(chan *Client, constants.CHANNEL_SIZE),
		Logout:  make(chan *Client, constants.CHANNEL_SIZE),
		done:    make(chan struct{}),
	}
}

// Start 处理登录登出事件，阻塞直到 Close
func (h *Hub) Start() {
	for {
		select {
		case client := <-h.Login:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			zap.L().Info("moderation ws connected", zap.String("user_id", client.UserId))
		case client := <-h.Logout:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				zap.L().Info("moderation ws disconnected", zap.String("user_id", client.UserId))
			}
			h.mu.Unlock()
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Deliver 实现 mq.EventSink，向所有连接推送事件
// 发送缓冲区已满的连接跳过本条事件
func (h *Hub) Deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			zap.L().Warn("moderation ws send buffer full, dropping event", zap.String("user_id", client.UserId))
		}
	}
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 停止 Hub 并关闭所有连接的发送通道
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}
