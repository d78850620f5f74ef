package handler

import (
	"community_server/internal/infrastructure/middleware"
	"community_server/internal/service/authz"

	"github.com/gin-gonic/gin"
)

// actorFrom 读取鉴权中间件写入上下文的调用者，未登录时返回 authz.Anonymous
func actorFrom(c *gin.Context) authz.Actor {
	return authz.Actor{
		UserID: c.GetString(middleware.CtxUserID),
		Role:   c.GetString(middleware.CtxRole),
	}
}
