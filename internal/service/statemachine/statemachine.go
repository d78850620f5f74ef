// Package statemachine 定义群组和帖子的合法状态及状态流转
// 只做校验，不读写存储
package statemachine

import (
	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"
)

type edge struct {
	from string
	to   string
}

// 群组：被拒绝的群组可由管理员重新通过，已通过的不能退回待审核
var groupTransitions = map[edge]struct{}{
	{group_status_enum.PENDING, group_status_enum.APPROVED}:  {},
	{group_status_enum.PENDING, group_status_enum.REJECTED}:  {},
	{group_status_enum.REJECTED, group_status_enum.APPROVED}: {},
}

// 帖子：published 和 rejected 均为终态
var postTransitions = map[edge]struct{}{
	{post_status_enum.DRAFT, post_status_enum.PENDING}:     {},
	{post_status_enum.PENDING, post_status_enum.PUBLISHED}: {},
	{post_status_enum.PENDING, post_status_enum.REJECTED}:  {},
}

var groupStates = []string{group_status_enum.PENDING, group_status_enum.APPROVED, group_status_enum.REJECTED}

var postStates = []string{post_status_enum.DRAFT, post_status_enum.PENDING, post_status_enum.PUBLISHED, post_status_enum.REJECTED}

// States 返回实体类型的全部状态，未知类型返回 nil
func States(entityType string) []string {
	switch entityType {
	case entity_type_enum.GROUP:
		return append([]string(nil), groupStates...)
	case entity_type_enum.POST:
		return append([]string(nil), postStates...)
	}
	return nil
}

// Validate 校验 from -> to 是否为合法流转，不合法时返回 CodeInvalidTransition
func Validate(entityType, from, to string) error {
	var table map[edge]struct{}
	switch entityType {
	case entity_type_enum.GROUP:
		table = groupTransitions
	case entity_type_enum.POST:
		table = postTransitions
	default:
		return errorx.Newf(errorx.CodeInvalidTransition, "未知实体类型 %s", entityType)
	}
	if _, ok := table[edge{from, to}]; !ok {
		return errorx.Newf(errorx.CodeInvalidTransition, "%s 状态不能从 %s 变为 %s", entityType, from, to)
	}
	return nil
}
