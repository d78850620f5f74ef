// Package post 帖子与点赞业务
// 审核相关的状态流转（提交、发布、拒绝）由 moderation 包负责
package post

import (
	"context"
	"time"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/infrastructure/sanitize"
	"community_server/internal/infrastructure/validation"
	"community_server/internal/model"
	"community_server/internal/service/authz"
	"community_server/internal/service/convert"
	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type postService struct {
	repos  *repository.Repositories
	events mq.Publisher
}

// NewPostService 构造函数
func NewPostService(repos *repository.Repositories, events mq.Publisher) *postService {
	return &postService{repos: repos, events: events}
}

// normalizeTags 去空白、去重，保留首次出现的顺序
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = sanitize.PlainText(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// CreatePost 发帖，只能创建为草稿或待审核
// 群组必须存在，未通过的群组只有群主和管理员可以发帖
func (s *postService) CreatePost(ctx context.Context, actor authz.Actor, req request.CreatePostRequest) (*respond.PostRespond, error) {
	if err := authz.Authorize(actor, authz.OpCreatePost, authz.Target{}); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	group, err := s.repos.Group.FindByUuid(ctx, req.GroupId)
	if err != nil {
		return nil, err
	}
	if group.Status != group_status_enum.APPROVED {
		if err := authz.Authorize(actor, authz.OpViewUnpublished, authz.Target{OwnerId: group.CreatedBy}); err != nil {
			return nil, err
		}
	}

	status := req.Status
	if status == "" {
		status = post_status_enum.DRAFT
	}
	post := model.Post{
		Uuid:       uuid.NewString(),
		Title:      sanitize.PlainText(req.Title),
		Content:    sanitize.RichText(req.Content),
		Excerpt:    sanitize.PlainText(req.Excerpt),
		CoverImage: req.CoverImage,
		Tags:       normalizeTags(req.Tags),
		Status:     status,
		AuthorId:   actor.UserID,
		GroupId:    group.Uuid,
	}
	if post.Content == "" {
		return nil, errorx.NewValidation(map[string]string{"content": "content is empty after sanitizing"})
	}
	if err := s.repos.Post.Create(ctx, &post); err != nil {
		zap.L().Error("create post error", zap.Error(err))
		return nil, err
	}

	if post.Status == post_status_enum.PENDING {
		mq.Emit(ctx, s.events, mq.ModerationEvent{
			EntityType: entity_type_enum.POST,
			EntityId:   post.Uuid,
			To:         post_status_enum.PENDING,
			ActorId:    actor.UserID,
			At:         time.Now().UTC(),
		})
	}

	rsp := convert.Post(&post)
	return &rsp, nil
}

// UpdatePost 编辑帖子内容，不改变状态
func (s *postService) UpdatePost(ctx context.Context, actor authz.Actor, req request.UpdatePostRequest) (*respond.PostRespond, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	post, err := s.repos.Post.FindByUuid(ctx, req.PostId)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.OpEditPost, authz.Target{OwnerId: post.AuthorId}); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = sanitize.PlainText(*req.Title)
	}
	if req.Content != nil {
		content := sanitize.RichText(*req.Content)
		if content == "" {
			return nil, errorx.NewValidation(map[string]string{"content": "content is empty after sanitizing"})
		}
		updates["content"] = content
	}
	if req.Excerpt != nil {
		updates["excerpt"] = sanitize.PlainText(*req.Excerpt)
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](normalizeTags(req.Tags))
	}
	if err := s.repos.Post.UpdateFields(ctx, post.Uuid, updates); err != nil {
		zap.L().Error("update post error", zap.Error(err))
		return nil, err
	}
	return s.GetPost(ctx, actor, post.Uuid)
}

// DeletePost 作者或管理员删除帖子，任意状态均可删除
func (s *postService) DeletePost(ctx context.Context, actor authz.Actor, postId string) error {
	post, err := s.repos.Post.FindByUuid(ctx, postId)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.OpDeletePost, authz.Target{OwnerId: post.AuthorId}); err != nil {
		return err
	}
	if err := s.repos.Post.Delete(ctx, postId); err != nil {
		zap.L().Error("delete post error", zap.Error(err))
		return err
	}
	return nil
}

// loadVisible 加载帖子，未发布的帖子只有作者和管理员可见
func (s *postService) loadVisible(ctx context.Context, actor authz.Actor, postId string) (*model.Post, error) {
	post, err := s.repos.Post.FindByUuid(ctx, postId)
	if err != nil {
		return nil, err
	}
	if post.Status != post_status_enum.PUBLISHED {
		if err := authz.Authorize(actor, authz.OpViewUnpublished, authz.Target{OwnerId: post.AuthorId}); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// GetPost 帖子详情，附带点赞数和当前用户是否已点赞
func (s *postService) GetPost(ctx context.Context, actor authz.Actor, postId string) (*respond.PostRespond, error) {
	post, err := s.loadVisible(ctx, actor, postId)
	if err != nil {
		return nil, err
	}
	list, err := s.withLikes(ctx, actor, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListPosts 分页查询已发布帖子，按发布时间倒序
func (s *postService) ListPosts(ctx context.Context, actor authz.Actor, req request.ListPostRequest) (*respond.PostListRespond, error) {
	posts, total, err := s.repos.Post.ListPublished(ctx, req.GroupId, req.Page, req.PageSize)
	if err != nil {
		zap.L().Error("list posts error", zap.Error(err))
		return nil, err
	}
	list, err := s.withLikes(ctx, actor, posts)
	if err != nil {
		return nil, err
	}
	return &respond.PostListRespond{List: list, Total: total}, nil
}

// LoadMyPosts 我的全部帖子（任意状态）
func (s *postService) LoadMyPosts(ctx context.Context, actor authz.Actor) ([]respond.PostRespond, error) {
	if !actor.Authenticated() {
		return nil, errorx.ErrUnauthorized
	}
	posts, err := s.repos.Post.FindByAuthor(ctx, actor.UserID)
	if err != nil {
		zap.L().Error("load my posts error", zap.Error(err))
		return nil, err
	}
	return s.withLikes(ctx, actor, posts)
}

func (s *postService) withLikes(ctx context.Context, actor authz.Actor, posts []model.Post) ([]respond.PostRespond, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Uuid)
	}
	counts, err := s.repos.Like.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.repos.Like.LikedPostIds(ctx, actor.UserID, ids)
	if err != nil {
		return nil, err
	}
	list := make([]respond.PostRespond, 0, len(posts))
	for i := range posts {
		rsp := convert.Post(&posts[i])
		rsp.LikesCount = counts[posts[i].Uuid]
		rsp.LikedByMe = liked[posts[i].Uuid]
		list = append(list, rsp)
	}
	return list, nil
}

// ToggleLike 已点赞则取消，否则点赞；返回操作后的状态和点赞总数
func (s *postService) ToggleLike(ctx context.Context, actor authz.Actor, postId string) (*respond.ToggleLikeRespond, error) {
	if err := authz.Authorize(actor, authz.OpLikePost, authz.Target{}); err != nil {
		return nil, err
	}
	if _, err := s.loadVisible(ctx, actor, postId); err != nil {
		return nil, err
	}

	var rsp respond.ToggleLikeRespond
	err := s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		exists, err := txRepos.Like.Exists(ctx, postId, actor.UserID)
		if err != nil {
			return err
		}
		if exists {
			if err := txRepos.Like.Delete(ctx, postId, actor.UserID); err != nil {
				return err
			}
		} else {
			like := model.PostLike{PostId: postId, UserId: actor.UserID}
			if err := txRepos.Like.Create(ctx, &like); err != nil {
				return err
			}
		}
		rsp.Liked = !exists
		rsp.LikesCount, err = txRepos.Like.CountByPost(ctx, postId)
		return err
	})
	if err != nil {
		zap.L().Error("toggle like error", zap.String("post_id", postId), zap.Error(err))
		return nil, err
	}
	return &rsp, nil
}
