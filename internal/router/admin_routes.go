// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员相关路由
// 这些接口只能由管理员调用
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")
	{
		// ===== 审核 =====
		adminGroup.POST("/group/transition", rt.handlers.Moderation.GroupTransition) // 通过 / 拒绝群组
		adminGroup.POST("/post/transition", rt.handlers.Moderation.PostTransition)   // 发布 / 拒绝帖子

		// ===== 待审核列表 =====
		notificationGroup := adminGroup.Group("/notification")
		{
			notificationGroup.GET("/pendingGroups", rt.handlers.Moderation.PendingGroups)
			notificationGroup.GET("/pendingPosts", rt.handlers.Moderation.PendingPosts)
		}

		// ===== 用户管理 =====
		adminGroup.POST("/user/setRole", rt.handlers.User.SetUserRole) // 设置用户角色
	}
}
