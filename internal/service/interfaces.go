// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 调用者身份统一以 authz.Actor 显式传入，由鉴权中间件在每个请求中解析一次
package service

import (
	"context"

	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/service/authz"
)

// UserService 用户业务接口
// 处理注册、登录、Token 刷新与资料管理
type UserService interface {
	// Register 邮箱注册，成功后直接返回登录态
	Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// Refresh 使用 Refresh Token 换取新的 Access Token
	Refresh(ctx context.Context, req request.RefreshTokenRequest) (*respond.TokenRespond, error)
	// Logout 注销，已签发的 Refresh Token 失效
	Logout(ctx context.Context, actor authz.Actor) error
	// GetUserInfo 获取用户资料
	GetUserInfo(ctx context.Context, userId string) (*respond.UserInfoRespond, error)
	// UpdateUserInfo 修改自己的资料
	UpdateUserInfo(ctx context.Context, actor authz.Actor, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error)
	// SetUserRole 管理员设置用户角色
	SetUserRole(ctx context.Context, actor authz.Actor, req request.SetUserRoleRequest) (*respond.UserInfoRespond, error)
}

// GroupService 群组业务接口
// 处理群组的创建、编辑、删除、查询和成员关系
type GroupService interface {
	// CreateGroup 创建群组，创建者自动成为群主
	CreateGroup(ctx context.Context, actor authz.Actor, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error)
	// UpdateGroupInfo 编辑群组信息
	UpdateGroupInfo(ctx context.Context, actor authz.Actor, req request.UpdateGroupInfoRequest) (*respond.GroupInfoRespond, error)
	// DeleteGroup 删除群组
	DeleteGroup(ctx context.Context, actor authz.Actor, groupId string) error
	// GetGroupInfo 按 id 或 slug 获取群组
	GetGroupInfo(ctx context.Context, actor authz.Actor, groupId, slug string) (*respond.GroupInfoRespond, error)
	// ListGroups 分页获取已通过的群组
	ListGroups(ctx context.Context, page, pageSize int) (*respond.GroupListRespond, error)
	// LoadMyGroup 加载我创建的群组
	LoadMyGroup(ctx context.Context, actor authz.Actor) ([]respond.GroupInfoRespond, error)
	// JoinGroup 加入群组
	JoinGroup(ctx context.Context, actor authz.Actor, groupId string) error
	// LeaveGroup 退出群组
	LeaveGroup(ctx context.Context, actor authz.Actor, groupId string) error
	// GetGroupMembers 获取群成员列表
	GetGroupMembers(ctx context.Context, actor authz.Actor, groupId string) ([]respond.GroupMemberRespond, error)
}

// PostService 帖子业务接口
type PostService interface {
	CreatePost(ctx context.Context, actor authz.Actor, req request.CreatePostRequest) (*respond.PostRespond, error)
	UpdatePost(ctx context.Context, actor authz.Actor, req request.UpdatePostRequest) (*respond.PostRespond, error)
	DeletePost(ctx context.Context, actor authz.Actor, postId string) error
	GetPost(ctx context.Context, actor authz.Actor, postId string) (*respond.PostRespond, error)
	ListPosts(ctx context.Context, actor authz.Actor, req request.ListPostRequest) (*respond.PostListRespond, error)
	LoadMyPosts(ctx context.Context, actor authz.Actor) ([]respond.PostRespond, error)
	// ToggleLike 点赞或取消点赞
	ToggleLike(ctx context.Context, actor authz.Actor, postId string) (*respond.ToggleLikeRespond, error)
}

// CommentService 评论业务接口
type CommentService interface {
	CreateComment(ctx context.Context, actor authz.Actor, req request.CreateCommentRequest) (*respond.CommentNode, error)
	UpdateComment(ctx context.Context, actor authz.Actor, req request.UpdateCommentRequest) (*respond.CommentNode, error)
	// DeleteComment 删除评论及其全部回复
	DeleteComment(ctx context.Context, actor authz.Actor, commentId string) error
	GetCommentTree(ctx context.Context, actor authz.Actor, postId string) ([]*respond.CommentNode, error)
}

// ModerationService 审核流转接口
type ModerationService interface {
	// RequestGroupTransition 管理员通过或拒绝群组
	RequestGroupTransition(ctx context.Context, actor authz.Actor, groupId, target string) (*respond.GroupInfoRespond, error)
	// RequestPostTransition 管理员发布或拒绝帖子
	RequestPostTransition(ctx context.Context, actor authz.Actor, postId, target string) (*respond.PostRespond, error)
	// SubmitPost 作者将草稿提交审核
	SubmitPost(ctx context.Context, actor authz.Actor, postId string) (*respond.PostRespond, error)
}

// NotificationService 待审核列表接口
type NotificationService interface {
	// ListPending 列出某类实体当前全部待审核条目，按创建时间倒序
	ListPending(ctx context.Context, actor authz.Actor, entityType string) ([]respond.PendingItemRespond, error)
}
