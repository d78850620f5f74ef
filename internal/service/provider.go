// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	myredis "community_server/internal/dao/redis"
	"community_server/internal/dao/store/repository"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/service/auth"
	"community_server/internal/service/comment"
	"community_server/internal/service/group"
	"community_server/internal/service/moderation"
	"community_server/internal/service/notification"
	"community_server/internal/service/post"
	"community_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User         UserService
	Group        GroupService
	Post         PostService
	Comment      CommentService
	Moderation   ModerationService
	Notification NotificationService
}

// Deps Service 层的外部依赖
type Deps struct {
	Repos       *repository.Repositories
	Cache       myredis.AsyncCacheService
	Events      mq.Publisher
	AdminEmails []string
}

// NewServices 创建并注入所有 Service 实例
func NewServices(deps Deps) *Services {
	authSvc := auth.NewAuthService(deps.Cache, deps.Repos.User)

	return &Services{
		User:         user.NewUserService(deps.Repos, authSvc, deps.AdminEmails),
		Group:        group.NewGroupService(deps.Repos, deps.Cache, deps.Events),
		Post:         post.NewPostService(deps.Repos, deps.Events),
		Comment:      comment.NewCommentService(deps.Repos),
		Moderation:   moderation.NewModerationService(deps.Repos, deps.Cache, deps.Events),
		Notification: notification.NewNotificationService(deps.Repos),
	}
}
