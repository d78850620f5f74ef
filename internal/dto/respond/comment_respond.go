package respond

import "time"

// CommentNode 评论树节点，Children 按创建时间正序
type CommentNode struct {
	Uuid      string         `json:"uuid"`
	Content   string         `json:"content"`
	AuthorId  string         `json:"author_id"`
	ParentId  *string        `json:"parent_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Children  []*CommentNode `json:"children"`
}
