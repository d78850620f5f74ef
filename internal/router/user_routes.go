package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户资料路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/getUserInfo", rt.handlers.User.GetUserInfo)
		userGroup.POST("/updateUserInfo", rt.handlers.User.UpdateUserInfo)
	}
}
