package websocket

import (
	"net/http"
	"time"

	"community_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 2048,
	// 前端与后端分开部署，跨域校验交给 CORS 配置
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个管理员的 WebSocket 连接
type Client struct {
	Conn   *websocket.Conn
	UserId string
	Send   chan []byte
}

// NewClientInit 升级连接并注册到 Hub
func NewClientInit(c *gin.Context, hub *Hub, userId string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		Conn:   conn,
		UserId: userId,
		Send:   make(chan []byte, constants.CHANNEL_SIZE),
	}
	hub.Login <- client
	go client.Write()
	go client.Read(hub)
}

// Read 只读取控制帧，连接断开时注销
func (c *Client) Read(hub *Hub) {
	defer func() {
		hub.Logout <- c
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("moderation ws read error", zap.Error(err))
			}
			return
		}
	}
}

// Write 将 Send 中的事件写给前端，并定时发送 ping
func (c *Client) Write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Error("moderation ws write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
