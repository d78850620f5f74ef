package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPostRoutes 注册帖子相关路由（需要认证）
func (rt *Router) RegisterPostRoutes(rg *gin.RouterGroup) {
	postGroup := rg.Group("/post")
	{
		postGroup.POST("/createPost", rt.handlers.Post.CreatePost)
		postGroup.POST("/updatePost", rt.handlers.Post.UpdatePost)
		postGroup.POST("/deletePost", rt.handlers.Post.DeletePost)
		postGroup.POST("/submit", rt.handlers.Post.SubmitPost) // 草稿提交审核
		postGroup.POST("/toggleLike", rt.handlers.Post.ToggleLike)
		postGroup.GET("/loadMyPost", rt.handlers.Post.LoadMyPost)
	}
}

// RegisterCommentRoutes 注册评论相关路由（需要认证）
func (rt *Router) RegisterCommentRoutes(rg *gin.RouterGroup) {
	commentGroup := rg.Group("/comment")
	{
		commentGroup.POST("/create", rt.handlers.Comment.Create)
		commentGroup.POST("/update", rt.handlers.Comment.Update)
		commentGroup.POST("/delete", rt.handlers.Comment.Delete)
	}
}
