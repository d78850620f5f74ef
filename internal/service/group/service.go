package group

import (
	"context"
	"encoding/json"
	"time"

	"community_server/internal/dao/store/repository"
	myredis "community_server/internal/dao/redis"
	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/infrastructure/sanitize"
	"community_server/internal/infrastructure/validation"
	"community_server/internal/model"
	"community_server/internal/service/authz"
	"community_server/internal/service/convert"
	"community_server/pkg/constants"
	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// groupInfoService 群组业务逻辑实现
// 通过构造函数注入 Repository、Cache 和事件发布依赖
type groupInfoService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	events mq.Publisher
}

// NewGroupService 构造函数，注入所有依赖
func NewGroupService(repos *repository.Repositories, cacheService myredis.AsyncCacheService, events mq.Publisher) *groupInfoService {
	return &groupInfoService{
		repos:  repos,
		cache:  cacheService,
		events: events,
	}
}

func duplicateSlug() error {
	return &errorx.CodeError{
		Code:   errorx.CodeDuplicateSlug,
		Msg:    errorx.ErrDuplicateSlug.Msg,
		Fields: map[string]string{"slug": "slug is already taken"},
	}
}

// CreateGroup 创建群组
// 未指定状态时管理员创建即通过，普通用户进入待审核；创建者自动成为群主
func (g *groupInfoService) CreateGroup(ctx context.Context, actor authz.Actor, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error) {
	if err := authz.Authorize(actor, authz.OpCreateGroup, authz.Target{}); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = group_status_enum.PENDING
		if actor.IsAdmin() {
			status = group_status_enum.APPROVED
		}
	}
	if status == group_status_enum.APPROVED && !actor.IsAdmin() {
		return nil, errorx.Newf(errorx.CodeForbidden, "只有管理员可以直接创建已通过的群组")
	}

	taken, err := g.repos.Group.SlugTaken(ctx, req.Slug, "")
	if err != nil {
		zap.L().Error("check slug error", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, duplicateSlug()
	}

	group := model.GroupInfo{
		Uuid:        uuid.NewString(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: sanitize.PlainText(req.Description),
		CoverImage:  req.CoverImage,
		Status:      status,
		CreatedBy:   actor.UserID,
	}

	err = g.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Group.Create(ctx, &group); err != nil {
			return err
		}
		// 创建者自动成为群主
		member := model.GroupMember{
			GroupUuid: group.Uuid,
			UserUuid:  actor.UserID,
			Role:      model.MemberRoleOwner,
		}
		return txRepos.GroupMember.Create(ctx, &member)
	})
	if err != nil {
		// 并发创建同一 slug 时由唯一索引兜底
		if errorx.GetCode(err) == errorx.CodeDuplicate {
			return nil, duplicateSlug()
		}
		zap.L().Error("create group error", zap.Error(err))
		return nil, err
	}

	if group.Status == group_status_enum.PENDING {
		mq.Emit(ctx, g.events, mq.ModerationEvent{
			EntityType: entity_type_enum.GROUP,
			EntityId:   group.Uuid,
			To:         group_status_enum.PENDING,
			ActorId:    actor.UserID,
			At:         time.Now().UTC(),
		})
	}

	rsp := convert.GroupInfo(&group, 1)
	return &rsp, nil
}

// UpdateGroupInfo 编辑群组信息，不改变审核状态
func (g *groupInfoService) UpdateGroupInfo(ctx context.Context, actor authz.Actor, req request.UpdateGroupInfoRequest) (*respond.GroupInfoRespond, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	group, err := g.repos.Group.FindByUuid(ctx, req.GroupId)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.OpEditGroup, authz.Target{OwnerId: group.CreatedBy}); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil && *req.Slug != group.Slug {
		taken, err := g.repos.Group.SlugTaken(ctx, *req.Slug, group.Uuid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateSlug()
		}
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = sanitize.PlainText(*req.Description)
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}

	if err := g.repos.Group.UpdateFields(ctx, group.Uuid, updates); err != nil {
		if errorx.GetCode(err) == errorx.CodeDuplicate {
			return nil, duplicateSlug()
		}
		zap.L().Error("update group error", zap.Error(err))
		return nil, err
	}
	g.invalidate(ctx, group.Uuid)
	return g.load(ctx, group.Uuid)
}

// DeleteGroup 删除群组，同一事务内清理成员关系并软删除群内帖子
func (g *groupInfoService) DeleteGroup(ctx context.Context, actor authz.Actor, groupId string) error {
	group, err := g.repos.Group.FindByUuid(ctx, groupId)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.OpDeleteGroup, authz.Target{OwnerId: group.CreatedBy}); err != nil {
		return err
	}

	err = g.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.GroupMember.DeleteByGroupUuid(ctx, groupId); err != nil {
			return err
		}
		if err := txRepos.Post.DeleteByGroupUuid(ctx, groupId); err != nil {
			return err
		}
		return txRepos.Group.Delete(ctx, groupId)
	})
	if err != nil {
		zap.L().Error("delete group error", zap.Error(err))
		return err
	}
	g.invalidate(ctx, groupId)
	return nil
}

// GetGroupInfo 按 id 或 slug 获取群组详情
// 未通过的群组只有创建者和管理员可见
func (g *groupInfoService) GetGroupInfo(ctx context.Context, actor authz.Actor, groupId, slug string) (*respond.GroupInfoRespond, error) {
	if groupId == "" {
		if slug == "" {
			return nil, errorx.NewValidation(map[string]string{"group_id": "group_id or slug is required"})
		}
		group, err := g.repos.Group.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		groupId = group.Uuid
	}

	rsp, err := g.cachedGroupInfo(ctx, groupId)
	if err != nil {
		return nil, err
	}
	if rsp.Status != group_status_enum.APPROVED {
		if err := authz.Authorize(actor, authz.OpViewUnpublished, authz.Target{OwnerId: rsp.CreatedBy}); err != nil {
			return nil, err
		}
	}
	return rsp, nil
}

// cachedGroupInfo 先读缓存，未命中再查库并异步回写
func (g *groupInfoService) cachedGroupInfo(ctx context.Context, groupId string) (*respond.GroupInfoRespond, error) {
	cacheKey := constants.GROUP_INFO_CACHE_PREFIX + groupId

	// 1. 尝试读取缓存
	rspString, err := g.cache.Get(ctx, cacheKey)
	if err == nil && rspString != "" {
		var rsp respond.GroupInfoRespond
		// 只信任已通过的缓存，其余状态可能已被审核改变
		if err := json.Unmarshal([]byte(rspString), &rsp); err == nil && rsp.Status == group_status_enum.APPROVED {
			return &rsp, nil
		} else if err == nil {
			zap.L().Debug("ignore non-approved group cache", zap.String("group_id", groupId), zap.String("status", rsp.Status))
		} else {
			// 反序列化失败视为缓存脏数据，继续查库
			zap.L().Warn("unmarshal group info cache failed, fallback to DB", zap.String("group_id", groupId), zap.Error(err))
		}
	} else if err != nil {
		// 缓存出错不中断业务
		zap.L().Error("redis get error", zap.Error(err))
	}

	// 2. 查询数据库
	rsp, err := g.load(ctx, groupId)
	if err != nil {
		return nil, err
	}

	// 3. 异步回写缓存
	// approved 是群组的终态，只有它写入缓存；其他状态每次查库
	if rsp.Status != group_status_enum.APPROVED {
		return rsp, nil
	}
	cacheRsp := *rsp
	g.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(cacheRsp)
		if err != nil {
			zap.L().Error("marshal group info for cache error", zap.Error(err))
			return
		}
		if err := g.cache.Set(context.Background(), cacheKey, string(rspBytes), constants.GROUP_INFO_CACHE_TTL); err != nil {
			zap.L().Error("set group info cache error", zap.Error(err))
		}
	})
	return rsp, nil
}

func (g *groupInfoService) load(ctx context.Context, groupId string) (*respond.GroupInfoRespond, error) {
	group, err := g.repos.Group.FindByUuid(ctx, groupId)
	if err != nil {
		return nil, err
	}
	memberCnt, err := g.repos.GroupMember.CountByGroup(ctx, groupId)
	if err != nil {
		return nil, err
	}
	rsp := convert.GroupInfo(group, memberCnt)
	return &rsp, nil
}

// ListGroups 分页获取已通过的群组
func (g *groupInfoService) ListGroups(ctx context.Context, page, pageSize int) (*respond.GroupListRespond, error) {
	groups, total, err := g.repos.Group.ListApproved(ctx, page, pageSize)
	if err != nil {
		zap.L().Error("list groups error", zap.Error(err))
		return nil, err
	}
	return g.toList(ctx, groups, total)
}

// LoadMyGroup 获取我创建的群组（任意状态）
func (g *groupInfoService) LoadMyGroup(ctx context.Context, actor authz.Actor) ([]respond.GroupInfoRespond, error) {
	if !actor.Authenticated() {
		return nil, errorx.ErrUnauthorized
	}
	groups, err := g.repos.Group.FindByCreator(ctx, actor.UserID)
	if err != nil {
		zap.L().Error("find my groups error", zap.Error(err))
		return nil, err
	}
	list, err := g.toList(ctx, groups, int64(len(groups)))
	if err != nil {
		return nil, err
	}
	return list.List, nil
}

func (g *groupInfoService) toList(ctx context.Context, groups []model.GroupInfo, total int64) (*respond.GroupListRespond, error) {
	ids := make([]string, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.Uuid)
	}
	counts, err := g.repos.GroupMember.CountByGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	// 使用 make 初始化，确保序列化后是 [] 而不是 null
	list := make([]respond.GroupInfoRespond, 0, len(groups))
	for i := range groups {
		list = append(list, convert.GroupInfo(&groups[i], counts[groups[i].Uuid]))
	}
	return &respond.GroupListRespond{List: list, Total: total}, nil
}

// JoinGroup 加入群组，重复加入不报错
func (g *groupInfoService) JoinGroup(ctx context.Context, actor authz.Actor, groupId string) error {
	if err := authz.Authorize(actor, authz.OpJoinGroup, authz.Target{}); err != nil {
		return err
	}
	if _, err := g.repos.Group.FindByUuid(ctx, groupId); err != nil {
		return err
	}
	member := model.GroupMember{
		GroupUuid: groupId,
		UserUuid:  actor.UserID,
		Role:      model.MemberRoleMember,
	}
	if err := g.repos.GroupMember.Create(ctx, &member); err != nil {
		zap.L().Error("join group error", zap.Error(err))
		return err
	}
	g.invalidate(ctx, groupId)
	return nil
}

// LeaveGroup 退出群组，未加入时不报错
func (g *groupInfoService) LeaveGroup(ctx context.Context, actor authz.Actor, groupId string) error {
	if err := authz.Authorize(actor, authz.OpLeaveGroup, authz.Target{}); err != nil {
		return err
	}
	if err := g.repos.GroupMember.Delete(ctx, groupId, actor.UserID); err != nil {
		zap.L().Error("leave group error", zap.Error(err))
		return err
	}
	g.invalidate(ctx, groupId)
	return nil
}

// GetGroupMembers 获取群成员列表，群主在前
func (g *groupInfoService) GetGroupMembers(ctx context.Context, actor authz.Actor, groupId string) ([]respond.GroupMemberRespond, error) {
	if _, err := g.GetGroupInfo(ctx, actor, groupId, ""); err != nil {
		return nil, err
	}
	members, err := g.repos.GroupMember.FindMembersWithUserInfo(ctx, groupId)
	if err != nil {
		zap.L().Error("find group members error", zap.Error(err))
		return nil, err
	}
	rsp := make([]respond.GroupMemberRespond, 0, len(members))
	for _, m := range members {
		rsp = append(rsp, respond.GroupMemberRespond{
			UserId:    m.UserId,
			FullName:  m.FullName,
			AvatarUrl: m.AvatarUrl,
			Role:      m.Role,
			JoinedAt:  m.CreatedAt,
		})
	}
	return rsp, nil
}

// invalidate 写库成功后同步删除群组详情缓存
// 删除失败只记日志，缓存最多在 TTL 内过期
func (g *groupInfoService) invalidate(ctx context.Context, groupId string) {
	if err := g.cache.Delete(ctx, constants.GROUP_INFO_CACHE_PREFIX+groupId); err != nil {
		zap.L().Error("delete group info cache error", zap.String("group_id", groupId), zap.Error(err))
	}
}
