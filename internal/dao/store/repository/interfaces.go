// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"community_server/internal/model"

	"gorm.io/gorm"
)

// ==================== 存储能力 ====================

// Capabilities 启动时探测一次的存储能力
// HasStatusColumn 为 false 表示库结构尚未迁移审核字段（降级模式）：
// 读取时群组一律视为 approved、帖子一律视为 published，审核流转被禁用
type Capabilities struct {
	HasStatusColumn bool
}

// Degraded 是否处于降级模式
func (c Capabilities) Degraded() bool {
	return !c.HasStatusColumn
}

// ==================== 查询结果行 ====================

// PendingGroupRow 待审核群组（含创建者信息）
type PendingGroupRow struct {
	Uuid        string
	Name        string
	Slug        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	AuthorName  string
	AuthorEmail string
}

// PendingPostRow 待审核帖子（含作者与群组信息）
type PendingPostRow struct {
	Uuid        string
	Title       string
	Excerpt     string
	GroupId     string
	GroupName   string
	AuthorId    string
	CreatedAt   time.Time
	AuthorName  string
	AuthorEmail string
}

// GroupMemberWithUserInfo 群成员及其基本资料
type GroupMemberWithUserInfo struct {
	UserId    string
	FullName  string
	AvatarUrl string
	Role      int8
	CreatedAt time.Time
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	FindByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	Create(ctx context.Context, user *model.UserInfo) error
	UpdateProfile(ctx context.Context, uuid string, updates map[string]interface{}) error
	UpdateRole(ctx context.Context, uuid string, role string) error
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	FindByUuid(ctx context.Context, uuid string) (*model.GroupInfo, error)
	FindBySlug(ctx context.Context, slug string) (*model.GroupInfo, error)
	// SlugTaken 检查 slug 是否已被占用（包含软删除记录），excludeUuid 用于编辑时排除自身
	SlugTaken(ctx context.Context, slug, excludeUuid string) (bool, error)
	FindByCreator(ctx context.Context, userId string) ([]model.GroupInfo, error)
	// ListApproved 分页查询已通过的群组
	ListApproved(ctx context.Context, page, pageSize int) ([]model.GroupInfo, int64, error)
	// ListPending 查询待审核群组，按创建时间倒序
	ListPending(ctx context.Context) ([]PendingGroupRow, error)
	Create(ctx context.Context, group *model.GroupInfo) error
	UpdateFields(ctx context.Context, uuid string, updates map[string]interface{}) error
	// CompareAndSetStatus 仅当当前状态为 from 时更新为 to，否则返回 CodeConflict
	CompareAndSetStatus(ctx context.Context, uuid, from, to string) error
	Delete(ctx context.Context, uuid string) error
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	Find(ctx context.Context, groupUuid, userUuid string) (*model.GroupMember, error)
	// Create 添加成员，已存在时不做任何修改
	Create(ctx context.Context, member *model.GroupMember) error
	Delete(ctx context.Context, groupUuid, userUuid string) error
	DeleteByGroupUuid(ctx context.Context, groupUuid string) error
	FindMembersWithUserInfo(ctx context.Context, groupUuid string) ([]GroupMemberWithUserInfo, error)
	CountByGroup(ctx context.Context, groupUuid string) (int64, error)
	CountByGroups(ctx context.Context, groupUuids []string) (map[string]int64, error)
}

// PostRepository 帖子数据访问接口
type PostRepository interface {
	FindByUuid(ctx context.Context, uuid string) (*model.Post, error)
	FindByAuthor(ctx context.Context, authorId string) ([]model.Post, error)
	// ListPublished 分页查询已发布帖子，groupId 为空时查询全部群组
	ListPublished(ctx context.Context, groupId string, page, pageSize int) ([]model.Post, int64, error)
	ListPending(ctx context.Context) ([]PendingPostRow, error)
	Create(ctx context.Context, post *model.Post) error
	UpdateFields(ctx context.Context, uuid string, updates map[string]interface{}) error
	// CompareAndSetStatus 状态与发布时间在同一条 UPDATE 中写入
	CompareAndSetStatus(ctx context.Context, uuid, from, to string, publishedAt *time.Time) error
	Delete(ctx context.Context, uuid string) error
	DeleteByGroupUuid(ctx context.Context, groupUuid string) error
}

// LikeRepository 点赞数据访问接口
type LikeRepository interface {
	Exists(ctx context.Context, postId, userId string) (bool, error)
	Create(ctx context.Context, like *model.PostLike) error
	Delete(ctx context.Context, postId, userId string) error
	CountByPost(ctx context.Context, postId string) (int64, error)
	CountByPosts(ctx context.Context, postIds []string) (map[string]int64, error)
	// LikedPostIds 返回 postIds 中该用户已点赞的帖子集合
	LikedPostIds(ctx context.Context, userId string, postIds []string) (map[string]bool, error)
}

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	FindByUuid(ctx context.Context, uuid string) (*model.Comment, error)
	// FindByPost 按创建时间正序返回帖子下的全部评论
	FindByPost(ctx context.Context, postId string) ([]model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	UpdateContent(ctx context.Context, uuid, content string) error
	DeleteByUuids(ctx context.Context, uuids []string) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	caps        Capabilities
	User        UserRepository
	Group       GroupRepository
	GroupMember GroupMemberRepository
	Post        PostRepository
	Like        LikeRepository
	Comment     CommentRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB, caps Capabilities) *Repositories {
	return &Repositories{
		db:          db,
		caps:        caps,
		User:        NewUserRepository(db),
		Group:       NewGroupRepository(db, caps),
		GroupMember: NewGroupMemberRepository(db),
		Post:        NewPostRepository(db, caps),
		Like:        NewLikeRepository(db),
		Comment:     NewCommentRepository(db),
	}
}

// Capabilities 返回启动时探测到的存储能力
func (r *Repositories) Capabilities() Capabilities {
	return r.caps
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, r.caps))
	})
}
