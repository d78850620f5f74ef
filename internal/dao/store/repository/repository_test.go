package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dao/store/storetest"
	"community_server/internal/model"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, ctx context.Context, create func(context.Context, *model.UserInfo) error, name string) *model.UserInfo {
	t.Helper()
	u := &model.UserInfo{
		Uuid:        uuid.NewString(),
		Email:       name + "@example.com",
		FullName:    name,
		RawPassword: "secret123",
	}
	if err := create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestGroupCompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "Go", Slug: "go", Status: group_status_enum.PENDING, CreatedBy: uuid.NewString()}
	if err := repos.Group.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.Group.CompareAndSetStatus(ctx, g.Uuid, group_status_enum.PENDING, group_status_enum.APPROVED); err != nil {
		t.Fatalf("cas: %v", err)
	}
	// 第二次使用过期的 from 应当冲突
	err := repos.Group.CompareAndSetStatus(ctx, g.Uuid, group_status_enum.PENDING, group_status_enum.REJECTED)
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := repos.Group.FindByUuid(ctx, g.Uuid)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != group_status_enum.APPROVED {
		t.Errorf("status = %s, want approved", got.Status)
	}
}

func TestGroupNotFoundAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)

	_, err := repos.Group.FindByUuid(ctx, uuid.NewString())
	if !errorx.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "a", Slug: "dup", Status: group_status_enum.PENDING, CreatedBy: "u"}
	if err := repos.Group.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	g2 := &model.GroupInfo{Uuid: uuid.NewString(), Name: "b", Slug: "dup", Status: group_status_enum.PENDING, CreatedBy: "u"}
	err = repos.Group.Create(ctx, g2)
	if errorx.GetCode(err) != errorx.CodeDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestSlugTakenIncludesDeleted(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "a", Slug: "gone", Status: group_status_enum.APPROVED, CreatedBy: "u"}
	if err := repos.Group.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.Group.Delete(ctx, g.Uuid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	taken, err := repos.Group.SlugTaken(ctx, "gone", "")
	if err != nil || !taken {
		t.Fatalf("taken = %v, err = %v", taken, err)
	}
	taken, err = repos.Group.SlugTaken(ctx, "gone", g.Uuid)
	if err != nil || taken {
		t.Fatalf("excluding self: taken = %v, err = %v", taken, err)
	}
}

func TestListPendingGroupsJoinsAuthor(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	alice := seedUser(t, ctx, repos.User.Create, "alice")

	older := &model.GroupInfo{Uuid: uuid.NewString(), Name: "old", Slug: "old", Status: group_status_enum.PENDING, CreatedBy: alice.Uuid}
	newer := &model.GroupInfo{Uuid: uuid.NewString(), Name: "new", Slug: "new", Status: group_status_enum.PENDING, CreatedBy: alice.Uuid}
	approved := &model.GroupInfo{Uuid: uuid.NewString(), Name: "ok", Slug: "ok", Status: group_status_enum.APPROVED, CreatedBy: alice.Uuid}
	for _, g := range []*model.GroupInfo{older, newer, approved} {
		if err := repos.Group.Create(ctx, g); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repos.Group.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Uuid != newer.Uuid || rows[1].Uuid != older.Uuid {
		t.Errorf("order = %s, %s; want newest first", rows[0].Name, rows[1].Name)
	}
	if rows[0].AuthorName != "alice" || rows[0].AuthorEmail != "alice@example.com" {
		t.Errorf("author = %q <%q>", rows[0].AuthorName, rows[0].AuthorEmail)
	}
}

func TestPostPublishSetsPublishedAt(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "g", Slug: "publish-g", Status: group_status_enum.APPROVED, CreatedBy: "a"}
	if err := repos.Group.Create(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	p := &model.Post{Uuid: uuid.NewString(), Title: "t", Content: "c", Status: post_status_enum.PENDING, AuthorId: "a", GroupId: g.Uuid}
	if err := repos.Post.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	if err := repos.Post.CompareAndSetStatus(ctx, p.Uuid, post_status_enum.PENDING, post_status_enum.PUBLISHED, &now); err != nil {
		t.Fatalf("cas: %v", err)
	}
	got, err := repos.Post.FindByUuid(ctx, p.Uuid)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != post_status_enum.PUBLISHED || got.PublishedAt == nil || !got.PublishedAt.Equal(now) {
		t.Errorf("status = %s, published_at = %v", got.Status, got.PublishedAt)
	}

	list, total, err := repos.Post.ListPublished(ctx, g.Uuid, 1, 10)
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("list = %d/%d, err = %v", len(list), total, err)
	}
}

func TestDegradedProjection(t *testing.T) {
	ctx := context.Background()
	repos := storetest.NewDegraded(t)
	if !repos.Capabilities().Degraded() {
		t.Fatal("expected degraded capabilities")
	}

	g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "legacy", Slug: "legacy", Status: group_status_enum.PENDING, CreatedBy: "u"}
	if err := repos.Group.Create(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	got, err := repos.Group.FindByUuid(ctx, g.Uuid)
	if err != nil {
		t.Fatalf("find group: %v", err)
	}
	if got.Status != group_status_enum.APPROVED {
		t.Errorf("group status = %s, want approved", got.Status)
	}

	p := &model.Post{Uuid: uuid.NewString(), Title: "t", Content: "c", Status: post_status_enum.DRAFT, AuthorId: "a", GroupId: g.Uuid}
	if err := repos.Post.Create(ctx, p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	post, err := repos.Post.FindByUuid(ctx, p.Uuid)
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if post.Status != post_status_enum.PUBLISHED {
		t.Errorf("post status = %s, want published", post.Status)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(post.CreatedAt) {
		t.Errorf("published_at = %v, want created_at %v", post.PublishedAt, post.CreatedAt)
	}

	groups, total, err := repos.Group.ListApproved(ctx, 1, 10)
	if err != nil || total != 1 || len(groups) != 1 {
		t.Fatalf("list approved = %d/%d, err = %v", len(groups), total, err)
	}
	pending, err := repos.Group.ListPending(ctx)
	if err != nil || len(pending) != 0 {
		t.Fatalf("pending = %d, err = %v", len(pending), err)
	}
	posts, err := repos.Post.ListPending(ctx)
	if err != nil || len(posts) != 0 {
		t.Fatalf("pending posts = %d, err = %v", len(posts), err)
	}
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		g := &model.GroupInfo{Uuid: uuid.NewString(), Name: "tx", Slug: "tx", Status: group_status_enum.PENDING, CreatedBy: "u"}
		if err := tx.Group.Create(ctx, g); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	taken, err := repos.Group.SlugTaken(ctx, "tx", "")
	if err != nil || taken {
		t.Fatalf("rolled back group still present: %v %v", taken, err)
	}
}

func TestLikeCountsAndMembershipIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)

	for i := 0; i < 2; i++ {
		if err := repos.GroupMember.Create(ctx, &model.GroupMember{GroupUuid: "g", UserUuid: "u", Role: model.MemberRoleMember}); err != nil {
			t.Fatalf("join #%d: %v", i, err)
		}
	}
	n, err := repos.GroupMember.CountByGroup(ctx, "g")
	if err != nil || n != 1 {
		t.Fatalf("members = %d, err = %v", n, err)
	}

	for _, u := range []string{"u1", "u2"} {
		if err := repos.Like.Create(ctx, &model.PostLike{PostId: "p1", UserId: u}); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	err = repos.Like.Create(ctx, &model.PostLike{PostId: "p1", UserId: "u1"})
	if errorx.GetCode(err) != errorx.CodeDuplicate {
		t.Fatalf("expected duplicate like, got %v", err)
	}
	counts, err := repos.Like.CountByPosts(ctx, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["p1"] != 2 || counts["p2"] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestListPublishedHidesUnapprovedGroups(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	now := time.Now().UTC()

	var visible string
	for i, status := range []string{group_status_enum.APPROVED, group_status_enum.PENDING, group_status_enum.REJECTED} {
		g := &model.GroupInfo{Uuid: uuid.NewString(), Name: status, Slug: "list-" + status, Status: status, CreatedBy: "a"}
		if err := repos.Group.Create(ctx, g); err != nil {
			t.Fatalf("create group: %v", err)
		}
		p := &model.Post{Uuid: uuid.NewString(), Title: status, Content: "c", Status: post_status_enum.PUBLISHED, PublishedAt: &now, AuthorId: "a", GroupId: g.Uuid}
		if err := repos.Post.Create(ctx, p); err != nil {
			t.Fatalf("create post: %v", err)
		}
		if i == 0 {
			visible = p.Uuid
		}
	}

	list, total, err := repos.Post.ListPublished(ctx, "", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Uuid != visible {
		t.Fatalf("list = %d/%d, want only the approved group's post", len(list), total)
	}
}
