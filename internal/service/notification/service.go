// Package notification 提供管理员的待审核列表
// 每次调用都直接查询存储，不做缓存
package notification

import (
	"context"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dto/respond"
	"community_server/internal/service/authz"
	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/errorx"

	"go.uber.org/zap"
)

type notificationService struct {
	repos *repository.Repositories
}

// NewNotificationService 构造函数
func NewNotificationService(repos *repository.Repositories) *notificationService {
	return &notificationService{repos: repos}
}

// ListPending 按创建时间倒序返回待审核实体，附带作者姓名和邮箱
func (s *notificationService) ListPending(ctx context.Context, actor authz.Actor, entityType string) ([]respond.PendingItemRespond, error) {
	if err := authz.Authorize(actor, authz.OpViewPendingFeed, authz.Target{}); err != nil {
		return nil, err
	}

	switch entityType {
	case entity_type_enum.GROUP:
		rows, err := s.repos.Group.ListPending(ctx)
		if err != nil {
			zap.L().Error("list pending groups error", zap.Error(err))
			return nil, err
		}
		items := make([]respond.PendingItemRespond, 0, len(rows))
		for _, row := range rows {
			items = append(items, respond.PendingItemRespond{
				EntityType:  entity_type_enum.GROUP,
				EntityId:    row.Uuid,
				Title:       row.Name,
				Summary:     row.Description,
				AuthorId:    row.CreatedBy,
				AuthorName:  row.AuthorName,
				AuthorEmail: row.AuthorEmail,
				CreatedAt:   row.CreatedAt,
			})
		}
		return items, nil
	case entity_type_enum.POST:
		rows, err := s.repos.Post.ListPending(ctx)
		if err != nil {
			zap.L().Error("list pending posts error", zap.Error(err))
			return nil, err
		}
		items := make([]respond.PendingItemRespond, 0, len(rows))
		for _, row := range rows {
			items = append(items, respond.PendingItemRespond{
				EntityType:  entity_type_enum.POST,
				EntityId:    row.Uuid,
				Title:       row.Title,
				Summary:     row.Excerpt,
				AuthorId:    row.AuthorId,
				AuthorName:  row.AuthorName,
				AuthorEmail: row.AuthorEmail,
				GroupId:     row.GroupId,
				GroupName:   row.GroupName,
				CreatedAt:   row.CreatedAt,
			})
		}
		return items, nil
	default:
		return nil, errorx.NewValidation(map[string]string{"entity_type": "entity_type must be one of [group post]"})
	}
}
