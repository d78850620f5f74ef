package respond

import "time"

// PostRespond 帖子详情
type PostRespond struct {
	Uuid        string     `json:"uuid"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"cover_image"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	AuthorId    string     `json:"author_id"`
	GroupId     string     `json:"group_id"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LikesCount  int64      `json:"likes_count"`
	LikedByMe   bool       `json:"liked_by_me"`
}

// PostListRespond 分页帖子列表
type PostListRespond struct {
	List  []PostRespond `json:"list"`
	Total int64         `json:"total"`
}

// ToggleLikeRespond 点赞/取消点赞结果
type ToggleLikeRespond struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
