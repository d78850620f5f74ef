// Package comment 评论业务，评论以 parent_id 组成不限深度的树
// 评论只能由作者本人编辑和删除
package comment

import (
	"context"
	"unicode/utf8"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/sanitize"
	"community_server/internal/infrastructure/validation"
	"community_server/internal/model"
	"community_server/internal/service/authz"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	repos *repository.Repositories
}

// NewCommentService 构造函数
func NewCommentService(repos *repository.Repositories) *commentService {
	return &commentService{repos: repos}
}

func toNode(c *model.Comment) *respond.CommentNode {
	return &respond.CommentNode{
		Uuid:      c.Uuid,
		Content:   c.Content,
		AuthorId:  c.AuthorId,
		ParentId:  c.ParentId,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Children:  make([]*respond.CommentNode, 0),
	}
}

// checkPost 帖子必须存在，未发布的帖子只有作者和管理员可见
func (s *commentService) checkPost(ctx context.Context, actor authz.Actor, postId string) error {
	post, err := s.repos.Post.FindByUuid(ctx, postId)
	if err != nil {
		return err
	}
	if post.Status != post_status_enum.PUBLISHED {
		return authz.Authorize(actor, authz.OpViewUnpublished, authz.Target{OwnerId: post.AuthorId})
	}
	return nil
}

// maxCommentLength 与 comment.content 列宽一致
const maxCommentLength = 2000

// cleanContent 长度按实际入库的文本计算
func cleanContent(raw string) (string, error) {
	content := sanitize.PlainText(raw)
	if content == "" {
		return "", errorx.NewValidation(map[string]string{"content": "content is empty after sanitizing"})
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", errorx.NewValidation(map[string]string{"content": "content must be at most 2000 characters"})
	}
	return content, nil
}

// CreateComment 发表评论或回复，父评论必须属于同一帖子
func (s *commentService) CreateComment(ctx context.Context, actor authz.Actor, req request.CreateCommentRequest) (*respond.CommentNode, error) {
	if err := authz.Authorize(actor, authz.OpCreateComment, authz.Target{}); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkPost(ctx, actor, req.PostId); err != nil {
		return nil, err
	}
	content, err := cleanContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		Uuid:     uuid.NewString(),
		Content:  content,
		PostId:   req.PostId,
		AuthorId: actor.UserID,
	}
	if req.ParentId != "" {
		parent, err := s.repos.Comment.FindByUuid(ctx, req.ParentId)
		if err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.NewValidation(map[string]string{"parent_id": "parent comment does not exist"})
			}
			return nil, err
		}
		if parent.PostId != req.PostId {
			return nil, errorx.NewValidation(map[string]string{"parent_id": "parent comment belongs to another post"})
		}
		parentId := parent.Uuid
		comment.ParentId = &parentId
	}

	if err := s.repos.Comment.Create(ctx, &comment); err != nil {
		zap.L().Error("create comment error", zap.Error(err))
		return nil, err
	}
	return toNode(&comment), nil
}

// UpdateComment 修改评论内容
func (s *commentService) UpdateComment(ctx context.Context, actor authz.Actor, req request.UpdateCommentRequest) (*respond.CommentNode, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	comment, err := s.repos.Comment.FindByUuid(ctx, req.CommentId)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.OpEditComment, authz.Target{OwnerId: comment.AuthorId}); err != nil {
		return nil, err
	}
	content, err := cleanContent(req.Content)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Comment.UpdateContent(ctx, comment.Uuid, content); err != nil {
		zap.L().Error("update comment error", zap.Error(err))
		return nil, err
	}
	updated, err := s.repos.Comment.FindByUuid(ctx, comment.Uuid)
	if err != nil {
		return nil, err
	}
	return toNode(updated), nil
}

// DeleteComment 删除评论及其全部回复
func (s *commentService) DeleteComment(ctx context.Context, actor authz.Actor, commentId string) error {
	comment, err := s.repos.Comment.FindByUuid(ctx, commentId)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.OpDeleteComment, authz.Target{OwnerId: comment.AuthorId}); err != nil {
		return err
	}

	all, err := s.repos.Comment.FindByPost(ctx, comment.PostId)
	if err != nil {
		return err
	}
	children := make(map[string][]string, len(all))
	for _, c := range all {
		if c.ParentId != nil {
			children[*c.ParentId] = append(children[*c.ParentId], c.Uuid)
		}
	}
	// 广度优先收集子树
	subtree := []string{comment.Uuid}
	for i := 0; i < len(subtree); i++ {
		subtree = append(subtree, children[subtree[i]]...)
	}

	if err := s.repos.Comment.DeleteByUuids(ctx, subtree); err != nil {
		zap.L().Error("delete comment error", zap.String("comment_id", commentId), zap.Error(err))
		return err
	}
	return nil
}

// GetCommentTree 返回帖子的评论树，同级按创建时间正序
func (s *commentService) GetCommentTree(ctx context.Context, actor authz.Actor, postId string) ([]*respond.CommentNode, error) {
	if err := s.checkPost(ctx, actor, postId); err != nil {
		return nil, err
	}
	comments, err := s.repos.Comment.FindByPost(ctx, postId)
	if err != nil {
		zap.L().Error("find comments error", zap.String("post_id", postId), zap.Error(err))
		return nil, err
	}
	return BuildTree(comments), nil
}

// BuildTree 由按创建时间正序排列的评论构建森林
// 节点统一分配在 arena 中，index 记录 uuid 到节点的映射；父节点缺失的评论作为根节点
func BuildTree(comments []model.Comment) []*respond.CommentNode {
	arena := make([]respond.CommentNode, len(comments))
	index := make(map[string]*respond.CommentNode, len(comments))
	for i := range comments {
		arena[i] = *toNode(&comments[i])
		index[comments[i].Uuid] = &arena[i]
	}

	roots := make([]*respond.CommentNode, 0)
	for i := range arena {
		node := &arena[i]
		if node.ParentId != nil {
			if parent, ok := index[*node.ParentId]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
