package constants

import "time"

const (
	CHANNEL_SIZE       = 100  // 事件推送通道大小
	DEFAULT_PAGE_SIZE  = 20   // 列表默认分页大小
	MAX_PAGE_SIZE      = 100  // 列表最大分页大小
	MAX_POST_TAGS      = 10   // 单个帖子标签上限
	MAX_COMMENT_LENGTH = 2000 // 评论最大长度

	GROUP_INFO_CACHE_TTL = 10 * time.Minute // 群组详情缓存时间
)

// 缓存 key 前缀
const (
	GROUP_INFO_CACHE_PREFIX = "group_info_"
	USER_TOKEN_PREFIX       = "user_token:"
)
