// Package authz 判断调用者能否执行某项操作
// 所有判断都是纯函数，调用者身份由上层显式传入
package authz

import (
	"community_server/pkg/enum/user_info/user_role_enum"
	"community_server/pkg/errorx"
)

// Actor 发起操作的用户，UserID 为空表示未登录
type Actor struct {
	UserID string
	Role   string
}

// Anonymous 未登录的调用者
var Anonymous = Actor{}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool {
	return a.UserID != "" && a.Role == user_role_enum.ADMIN
}

// Authenticated 是否已登录
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// Owns 是否为资源所有者
func (a Actor) Owns(ownerId string) bool {
	return a.UserID != "" && a.UserID == ownerId
}

// Op 受控操作
type Op int

const (
	OpCreateGroup Op = iota + 1
	OpModerateGroup
	OpEditGroup
	OpDeleteGroup
	OpJoinGroup
	OpLeaveGroup
	OpCreatePost
	OpSubmitPost
	OpModeratePost
	OpEditPost
	OpDeletePost
	OpLikePost
	OpCreateComment
	OpEditComment
	OpDeleteComment
	OpViewPendingFeed
	OpViewUnpublished
	OpSetUserRole
)

var opNames = map[Op]string{
	OpCreateGroup:     "create group",
	OpModerateGroup:   "moderate group",
	OpEditGroup:       "edit group",
	OpDeleteGroup:     "delete group",
	OpJoinGroup:       "join group",
	OpLeaveGroup:      "leave group",
	OpCreatePost:      "create post",
	OpSubmitPost:      "submit post",
	OpModeratePost:    "moderate post",
	OpEditPost:        "edit post",
	OpDeletePost:      "delete post",
	OpLikePost:        "like post",
	OpCreateComment:   "create comment",
	OpEditComment:     "edit comment",
	OpDeleteComment:   "delete comment",
	OpViewPendingFeed: "view pending feed",
	OpViewUnpublished: "view unpublished content",
	OpSetUserRole:     "set user role",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown operation"
}

// Target 被操作的资源，OwnerId 为群组创建者、帖子或评论作者
type Target struct {
	OwnerId string
}

type rule int

const (
	ruleAuthenticated rule = iota
	ruleAdmin
	ruleOwnerOrAdmin
	ruleOwner
)

var rules = map[Op]rule{
	OpCreateGroup:     ruleAuthenticated,
	OpModerateGroup:   ruleAdmin,
	OpEditGroup:       ruleOwnerOrAdmin,
	OpDeleteGroup:     ruleOwnerOrAdmin,
	OpJoinGroup:       ruleAuthenticated,
	OpLeaveGroup:      ruleAuthenticated,
	OpCreatePost:      ruleAuthenticated,
	OpSubmitPost:      ruleOwnerOrAdmin,
	OpModeratePost:    ruleAdmin,
	OpEditPost:        ruleOwnerOrAdmin,
	OpDeletePost:      ruleOwnerOrAdmin,
	OpLikePost:        ruleAuthenticated,
	OpCreateComment:   ruleAuthenticated,
	OpEditComment:     ruleOwner, // 管理员不能编辑或删除他人评论
	OpDeleteComment:   ruleOwner,
	OpViewPendingFeed: ruleAdmin,
	OpViewUnpublished: ruleOwnerOrAdmin,
	OpSetUserRole:     ruleAdmin,
}

// Authorize 允许时返回 nil，否则返回 CodeForbidden
func Authorize(actor Actor, op Op, target Target) error {
	r, ok := rules[op]
	if !ok || !actor.Authenticated() {
		return forbidden(op)
	}
	switch r {
	case ruleAuthenticated:
		return nil
	case ruleAdmin:
		if actor.IsAdmin() {
			return nil
		}
	case ruleOwnerOrAdmin:
		if actor.IsAdmin() || actor.Owns(target.OwnerId) {
			return nil
		}
	case ruleOwner:
		if actor.Owns(target.OwnerId) {
			return nil
		}
	}
	return forbidden(op)
}

func forbidden(op Op) error {
	return errorx.Newf(errorx.CodeForbidden, "无权执行该操作：%s", op)
}
