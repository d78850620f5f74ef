// Package router 提供 HTTP 路由注册
// 本文件定义群组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由（需要认证）
// 包括群组创建、编辑、删除和成员关系
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/group")
	{
		// ===== 群组基本操作 =====
		groupGroup.POST("/createGroup", rt.handlers.Group.CreateGroup)         // 创建群组
		groupGroup.POST("/updateGroupInfo", rt.handlers.Group.UpdateGroupInfo) // 更新群组信息
		groupGroup.POST("/deleteGroup", rt.handlers.Group.DeleteGroup)         // 删除群组（群主或管理员）
		groupGroup.GET("/loadMyGroup", rt.handlers.Group.LoadMyGroup)          // 获取我创建的群组

		// ===== 成员关系 =====
		groupGroup.POST("/join", rt.handlers.Group.JoinGroup)            // 加入群组
		groupGroup.POST("/leave", rt.handlers.Group.LeaveGroup)          // 退出群组
		groupGroup.GET("/memberList", rt.handlers.Group.GetGroupMembers) // 获取群成员列表
	}
}
