// Package moderation 编排群组和帖子的审核流转
// 流程：降级检查 -> 加载实体 -> 权限校验 -> 状态机校验 -> 条件更新 -> 发布事件
package moderation

import (
	"context"
	"time"

	"community_server/internal/dao/store/repository"
	myredis "community_server/internal/dao/redis"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/service/authz"
	"community_server/internal/service/convert"
	"community_server/internal/service/statemachine"
	"community_server/pkg/constants"
	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"go.uber.org/zap"
)

// moderationService 审核业务实现
type moderationService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	events mq.Publisher
	now    func() time.Time
}

// NewModerationService 构造函数，注入所有依赖
func NewModerationService(repos *repository.Repositories, cache myredis.AsyncCacheService, events mq.Publisher) *moderationService {
	return &moderationService{
		repos:  repos,
		cache:  cache,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RequestGroupTransition 管理员通过或拒绝群组
func (s *moderationService) RequestGroupTransition(ctx context.Context, actor authz.Actor, groupId, target string) (*respond.GroupInfoRespond, error) {
	if s.repos.Capabilities().Degraded() {
		return nil, errorx.ErrUnsupportedOperation
	}
	if target != group_status_enum.APPROVED && target != group_status_enum.REJECTED {
		return nil, errorx.NewValidation(map[string]string{"status": "status must be one of [approved rejected]"})
	}

	group, err := s.repos.Group.FindByUuid(ctx, groupId)
	if err != nil {
		return nil, logStoreError(err)
	}
	if err := authz.Authorize(actor, authz.OpModerateGroup, authz.Target{OwnerId: group.CreatedBy}); err != nil {
		return nil, err
	}
	from := group.Status
	if err := statemachine.Validate(entity_type_enum.GROUP, from, target); err != nil {
		return nil, err
	}
	if err := s.repos.Group.CompareAndSetStatus(ctx, groupId, from, target); err != nil {
		return nil, logStoreError(err)
	}

	s.invalidateGroup(ctx, groupId)
	mq.Emit(ctx, s.events, mq.ModerationEvent{
		EntityType: entity_type_enum.GROUP,
		EntityId:   groupId,
		From:       from,
		To:         target,
		ActorId:    actor.UserID,
		At:         s.now(),
	})

	updated, err := s.repos.Group.FindByUuid(ctx, groupId)
	if err != nil {
		return nil, logStoreError(err)
	}
	memberCnt, err := s.repos.GroupMember.CountByGroup(ctx, groupId)
	if err != nil {
		return nil, logStoreError(err)
	}
	rsp := convert.GroupInfo(updated, memberCnt)
	return &rsp, nil
}

// RequestPostTransition 管理员发布或拒绝帖子，发布时同一条 UPDATE 写入 published_at
func (s *moderationService) RequestPostTransition(ctx context.Context, actor authz.Actor, postId, target string) (*respond.PostRespond, error) {
	if s.repos.Capabilities().Degraded() {
		return nil, errorx.ErrUnsupportedOperation
	}
	if target != post_status_enum.PUBLISHED && target != post_status_enum.REJECTED {
		return nil, errorx.NewValidation(map[string]string{"status": "status must be one of [published rejected]"})
	}
	return s.transitionPost(ctx, actor, postId, target, authz.OpModeratePost)
}

// SubmitPost 作者将草稿提交审核
func (s *moderationService) SubmitPost(ctx context.Context, actor authz.Actor, postId string) (*respond.PostRespond, error) {
	if s.repos.Capabilities().Degraded() {
		return nil, errorx.ErrUnsupportedOperation
	}
	return s.transitionPost(ctx, actor, postId, post_status_enum.PENDING, authz.OpSubmitPost)
}

func (s *moderationService) transitionPost(ctx context.Context, actor authz.Actor, postId, target string, op authz.Op) (*respond.PostRespond, error) {
	post, err := s.repos.Post.FindByUuid(ctx, postId)
	if err != nil {
		return nil, logStoreError(err)
	}
	if err := authz.Authorize(actor, op, authz.Target{OwnerId: post.AuthorId}); err != nil {
		return nil, err
	}
	from := post.Status
	if err := statemachine.Validate(entity_type_enum.POST, from, target); err != nil {
		return nil, err
	}

	var publishedAt *time.Time
	if target == post_status_enum.PUBLISHED {
		now := s.now()
		publishedAt = &now
	}
	if err := s.repos.Post.CompareAndSetStatus(ctx, postId, from, target, publishedAt); err != nil {
		return nil, logStoreError(err)
	}

	mq.Emit(ctx, s.events, mq.ModerationEvent{
		EntityType: entity_type_enum.POST,
		EntityId:   postId,
		From:       from,
		To:         target,
		ActorId:    actor.UserID,
		At:         s.now(),
	})

	updated, err := s.repos.Post.FindByUuid(ctx, postId)
	if err != nil {
		return nil, logStoreError(err)
	}
	likes, err := s.repos.Like.CountByPost(ctx, postId)
	if err != nil {
		return nil, logStoreError(err)
	}
	rsp := convert.Post(updated)
	rsp.LikesCount = likes
	return &rsp, nil
}

// invalidateGroup 状态更新成功后同步删除群组详情缓存
func (s *moderationService) invalidateGroup(ctx context.Context, groupId string) {
	if err := s.cache.Delete(ctx, constants.GROUP_INFO_CACHE_PREFIX+groupId); err != nil {
		zap.L().Error("delete group info cache error", zap.String("group_id", groupId), zap.Error(err))
	}
}

// logStoreError 存储不可用时记录日志，业务错误原样返回
func logStoreError(err error) error {
	if errorx.GetCode(err) == errorx.CodeStoreUnavailable {
		zap.L().Error("store error", zap.Error(err))
	}
	return err
}
