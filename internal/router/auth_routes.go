// Package router 提供 HTTP 路由注册
// 本文件定义公开接口和认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes 注册无需登录的路由
func (rt *Router) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", rt.handlers.Auth.Register)
	rg.POST("/login", rt.handlers.Auth.Login)
	// 使用 Refresh Token 换取新的 Access Token
	rg.POST("/auth/refresh", rt.handlers.Auth.Refresh)

	rg.GET("/group/list", rt.handlers.Group.ListGroups)
	rg.GET("/group/getGroupInfo", rt.handlers.Group.GetGroupInfo)
	rg.GET("/post/list", rt.handlers.Post.ListPosts)
	rg.GET("/post/getPost", rt.handlers.Post.GetPost)
	rg.GET("/comment/tree", rt.handlers.Comment.Tree)
}

// RegisterAuthRoutes 注册需要登录的认证路由
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", rt.handlers.Auth.Logout)
}
