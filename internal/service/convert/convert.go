// Package convert 将数据模型转换为响应结构
package convert

import (
	"community_server/internal/dto/respond"
	"community_server/internal/model"
)

// GroupInfo 群组模型转响应
func GroupInfo(group *model.GroupInfo, memberCnt int64) respond.GroupInfoRespond {
	return respond.GroupInfoRespond{
		Uuid:        group.Uuid,
		Name:        group.Name,
		Slug:        group.Slug,
		Description: group.Description,
		CoverImage:  group.CoverImage,
		Status:      group.Status,
		CreatedBy:   group.CreatedBy,
		MemberCnt:   memberCnt,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

// Post 帖子模型转响应，点赞信息由调用方补充
func Post(post *model.Post) respond.PostRespond {
	tags := make([]string, 0, len(post.Tags))
	tags = append(tags, post.Tags...)
	return respond.PostRespond{
		Uuid:        post.Uuid,
		Title:       post.Title,
		Content:     post.Content,
		Excerpt:     post.Excerpt,
		CoverImage:  post.CoverImage,
		Tags:        tags,
		Status:      post.Status,
		AuthorId:    post.AuthorId,
		GroupId:     post.GroupId,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// UserInfo 用户模型转响应
func UserInfo(user *model.UserInfo) respond.UserInfoRespond {
	return respond.UserInfoRespond{
		Uuid:      user.Uuid,
		Email:     user.Email,
		FullName:  user.FullName,
		Bio:       user.Bio,
		AvatarUrl: user.AvatarUrl,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
