package comment

import (
	"context"
	"strings"
	"testing"
	"time"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dao/store/storetest"
	"community_server/internal/dto/request"
	"community_server/internal/model"
	"community_server/internal/service/authz"
	"community_server/pkg/enum/post/post_status_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
)

var (
	adminActor  = authz.Actor{UserID: "admin-1", Role: "admin"}
	authorActor = authz.Actor{UserID: "author-1", Role: "member"}
	readerActor = authz.Actor{UserID: "reader-1", Role: "member"}
)

func seedPost(t *testing.T, repos *repository.Repositories, status string) *model.Post {
	t.Helper()
	p := &model.Post{Uuid: uuid.NewString(), Title: "t", Content: "c", Status: status, AuthorId: authorActor.UserID, GroupId: "g"}
	if status == post_status_enum.PUBLISHED {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	if err := repos.Post.Create(context.Background(), p); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func mustComment(t *testing.T, svc *commentService, actor authz.Actor, postId, parentId, content string) string {
	t.Helper()
	node, err := svc.CreateComment(context.Background(), actor, request.CreateCommentRequest{PostId: postId, ParentId: parentId, Content: content})
	if err != nil {
		t.Fatalf("create comment %q: %v", content, err)
	}
	return node.Uuid
}

func TestCommentTree(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc := NewCommentService(repos)
	p := seedPost(t, repos, post_status_enum.PUBLISHED)

	a := mustComment(t, svc, readerActor, p.Uuid, "", "a")
	b := mustComment(t, svc, authorActor, p.Uuid, a, "b")
	mustComment(t, svc, readerActor, p.Uuid, b, "c")
	mustComment(t, svc, readerActor, p.Uuid, a, "d")
	mustComment(t, svc, authorActor, p.Uuid, "", "e")

	tree, err := svc.GetCommentTree(ctx, authz.Anonymous, p.Uuid)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(tree) != 2 || tree[0].Content != "a" || tree[1].Content != "e" {
		t.Fatalf("unexpected roots: %+v", tree)
	}
	if len(tree[0].Children) != 2 || tree[0].Children[0].Content != "b" || tree[0].Children[1].Content != "d" {
		t.Fatalf("unexpected children of a: %+v", tree[0].Children)
	}
	if len(tree[0].Children[0].Children) != 1 || tree[0].Children[0].Children[0].Content != "c" {
		t.Fatalf("unexpected children of b")
	}
}

func TestCreateCommentValidation(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc := NewCommentService(repos)
	p := seedPost(t, repos, post_status_enum.PUBLISHED)
	other := seedPost(t, repos, post_status_enum.PUBLISHED)

	foreign := mustComment(t, svc, readerActor, other.Uuid, "", "elsewhere")
	_, err := svc.CreateComment(ctx, readerActor, request.CreateCommentRequest{PostId: p.Uuid, ParentId: foreign, Content: "reply"})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("cross-post parent: expected validation error, got %v", err)
	}

	_, err = svc.CreateComment(ctx, readerActor, request.CreateCommentRequest{PostId: p.Uuid, Content: strings.Repeat("x", 2001)})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("too long: expected validation error, got %v", err)
	}

	_, err = svc.CreateComment(ctx, readerActor, request.CreateCommentRequest{PostId: p.Uuid, Content: "<b></b>"})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("empty after sanitize: expected validation error, got %v", err)
	}

	_, err = svc.CreateComment(ctx, authz.Anonymous, request.CreateCommentRequest{PostId: p.Uuid, Content: "hi"})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("anonymous: expected forbidden, got %v", err)
	}

	draft := seedPost(t, repos, post_status_enum.DRAFT)
	_, err = svc.CreateComment(ctx, readerActor, request.CreateCommentRequest{PostId: draft.Uuid, Content: "hi"})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("draft post: expected forbidden, got %v", err)
	}
}

func TestCommentOwnership(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc := NewCommentService(repos)
	p := seedPost(t, repos, post_status_enum.PUBLISHED)
	id := mustComment(t, svc, readerActor, p.Uuid, "", "mine")

	// 管理员同样不能修改他人评论
	if _, err := svc.UpdateComment(ctx, adminActor, request.UpdateCommentRequest{CommentId: id, Content: "x"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("admin edit: expected forbidden, got %v", err)
	}
	if err := svc.DeleteComment(ctx, adminActor, id); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("admin delete: expected forbidden, got %v", err)
	}

	node, err := svc.UpdateComment(ctx, readerActor, request.UpdateCommentRequest{CommentId: id, Content: "edited"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if node.Content != "edited" {
		t.Fatalf("content = %q", node.Content)
	}
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc := NewCommentService(repos)
	p := seedPost(t, repos, post_status_enum.PUBLISHED)

	root := mustComment(t, svc, readerActor, p.Uuid, "", "root")
	child := mustComment(t, svc, authorActor, p.Uuid, root, "child")
	mustComment(t, svc, adminActor, p.Uuid, child, "grandchild")
	mustComment(t, svc, authorActor, p.Uuid, "", "sibling")

	if err := svc.DeleteComment(ctx, readerActor, root); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tree, err := svc.GetCommentTree(ctx, readerActor, p.Uuid)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(tree) != 1 || tree[0].Content != "sibling" || len(tree[0].Children) != 0 {
		t.Fatalf("unexpected tree after delete: %+v", tree)
	}
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	missing := "gone"
	tree := BuildTree([]model.Comment{
		{Uuid: "a", Content: "a"},
		{Uuid: "b", Content: "b", ParentId: &missing},
	})
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
}

func TestCommentSpecialCharactersStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc := NewCommentService(repos)
	p := seedPost(t, repos, post_status_enum.PUBLISHED)

	id := mustComment(t, svc, readerActor, p.Uuid, "", "Tom & Jerry's")
	stored, err := repos.Comment.FindByUuid(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Content != "Tom & Jerry's" {
		t.Fatalf("content = %q", stored.Content)
	}

	id = mustComment(t, svc, readerActor, p.Uuid, "", strings.Repeat("&", 2000))
	stored, err = repos.Comment.FindByUuid(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(stored.Content) != 2000 {
		t.Fatalf("stored length = %d, want 2000", len(stored.Content))
	}

	node, err := svc.UpdateComment(ctx, readerActor, request.UpdateCommentRequest{CommentId: id, Content: `a "quoted" <i>word</i>`})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if node.Content != `a "quoted" word` {
		t.Fatalf("updated content = %q", node.Content)
	}
}
