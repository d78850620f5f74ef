package respond

import "time"

// PendingItemRespond 待审核条目
// 群组条目的 Title/Summary 取 name/description，帖子条目取 title/excerpt
type PendingItemRespond struct {
	EntityType  string    `json:"entity_type"`
	EntityId    string    `json:"entity_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	AuthorId    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	GroupId     string    `json:"group_id,omitempty"`
	GroupName   string    `json:"group_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
