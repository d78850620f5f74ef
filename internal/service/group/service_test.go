package group

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"community_server/internal/dao/redis"
	"community_server/internal/dao/store/repository"
	"community_server/internal/dao/store/storetest"
	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/mq"
	"community_server/internal/service/authz"
	"community_server/pkg/constants"
	"community_server/pkg/enum/group_info/group_status_enum"
	"community_server/pkg/errorx"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.ModerationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event mq.ModerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

var (
	adminActor  = authz.Actor{UserID: "admin-1", Role: "admin"}
	memberActor = authz.Actor{UserID: "member-1", Role: "member"}
	otherActor  = authz.Actor{UserID: "member-2", Role: "member"}
)

func newService(t *testing.T, repos *repository.Repositories) (*groupInfoService, *redis.MemoryCache, *recordingPublisher) {
	t.Helper()
	cache := redis.NewMemoryCache()
	pub := &recordingPublisher{}
	return NewGroupService(repos, cache, pub), cache, pub
}

func createReq(slug string) request.CreateGroupRequest {
	return request.CreateGroupRequest{Name: "Go 爱好者", Slug: slug, Description: "<b>hi</b> there"}
}

func TestCreateGroupStatusByRole(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	svc, _, pub := newService(t, repos)

	rsp, err := svc.CreateGroup(ctx, memberActor, createReq("golang"))
	if err != nil {
		t.Fatalf("member create: %v", err)
	}
	if rsp.Status != group_status_enum.PENDING {
		t.Fatalf("member group status = %s, want pending", rsp.Status)
	}
	if rsp.MemberCnt != 1 {
		t.Fatalf("member count = %d, want 1", rsp.MemberCnt)
	}
	if rsp.Description != "hi there" {
		t.Fatalf("description not sanitized: %q", rsp.Description)
	}
	if len(pub.events) != 1 || pub.events[0].To != group_status_enum.PENDING {
		t.Fatalf("expected one pending event, got %+v", pub.events)
	}

	rsp, err = svc.CreateGroup(ctx, adminActor, createReq("rust"))
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if rsp.Status != group_status_enum.APPROVED {
		t.Fatalf("admin group status = %s, want approved", rsp.Status)
	}
	if len(pub.events) != 1 {
		t.Fatalf("approved creation should not emit, got %d events", len(pub.events))
	}

	req := createReq("python")
	req.Status = group_status_enum.APPROVED
	if _, err := svc.CreateGroup(ctx, memberActor, req); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("member create approved: expected forbidden, got %v", err)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	if _, err := svc.CreateGroup(ctx, authz.Anonymous, createReq("anon")); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("anonymous: expected forbidden, got %v", err)
	}

	_, err := svc.CreateGroup(ctx, memberActor, createReq("Bad Slug!"))
	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) || codeErr.Code != errorx.CodeInvalidParam {
		t.Fatalf("bad slug: expected validation error, got %v", err)
	}
	if _, ok := codeErr.Fields["slug"]; !ok {
		t.Fatalf("expected slug field error, got %v", codeErr.Fields)
	}
}

func TestDuplicateSlugIncludesDeleted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	first, err := svc.CreateGroup(ctx, memberActor, createReq("dup"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.CreateGroup(ctx, otherActor, createReq("dup"))
	if errorx.GetCode(err) != errorx.CodeDuplicateSlug {
		t.Fatalf("expected duplicate slug, got %v", err)
	}

	if err := svc.DeleteGroup(ctx, memberActor, first.Uuid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.CreateGroup(ctx, otherActor, createReq("dup"))
	if errorx.GetCode(err) != errorx.CodeDuplicateSlug {
		t.Fatalf("deleted group should still hold slug, got %v", err)
	}
}

func TestUpdateGroupInfo(t *testing.T) {
	ctx := context.Background()
	svc, cache, _ := newService(t, storetest.New(t))

	g, err := svc.CreateGroup(ctx, adminActor, createReq("edit-me"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.CreateGroup(ctx, adminActor, createReq("taken"))
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	// 预热缓存
	if _, err := svc.GetGroupInfo(ctx, memberActor, g.Uuid, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	if v, _ := cache.Get(ctx, constants.GROUP_INFO_CACHE_PREFIX+g.Uuid); v == "" {
		t.Fatalf("expected group info cached")
	}

	name := "新名字"
	if _, err := svc.UpdateGroupInfo(ctx, memberActor, request.UpdateGroupInfoRequest{GroupId: g.Uuid, Name: &name}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("non-owner edit: expected forbidden, got %v", err)
	}

	rsp, err := svc.UpdateGroupInfo(ctx, adminActor, request.UpdateGroupInfoRequest{GroupId: g.Uuid, Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rsp.Name != name || rsp.Status != group_status_enum.APPROVED {
		t.Fatalf("unexpected update result: %+v", rsp)
	}
	if v, _ := cache.Get(ctx, constants.GROUP_INFO_CACHE_PREFIX+g.Uuid); v != "" {
		t.Fatalf("expected cache invalidated after update")
	}

	slug := other.Slug
	if _, err := svc.UpdateGroupInfo(ctx, adminActor, request.UpdateGroupInfoRequest{GroupId: g.Uuid, Slug: &slug}); errorx.GetCode(err) != errorx.CodeDuplicateSlug {
		t.Fatalf("slug collision: expected duplicate slug, got %v", err)
	}
}

func TestGetGroupInfoVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	g, err := svc.CreateGroup(ctx, memberActor, createReq("hidden"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, otherActor, g.Uuid, ""); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("stranger view pending: expected forbidden, got %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, authz.Anonymous, "", "hidden"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("anonymous view pending: expected forbidden, got %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, memberActor, "", "hidden"); err != nil {
		t.Fatalf("owner view by slug: %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, adminActor, g.Uuid, ""); err != nil {
		t.Fatalf("admin view: %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, adminActor, "missing", ""); !errorx.IsNotFound(err) {
		t.Fatalf("missing group: expected not found, got %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, adminActor, "", ""); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("empty lookup: expected validation error, got %v", err)
	}
}

func TestListGroupsOnlyApproved(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	approved, err := svc.CreateGroup(ctx, adminActor, createReq("public"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, memberActor, createReq("queued")); err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if err := svc.JoinGroup(ctx, memberActor, approved.Uuid); err != nil {
		t.Fatalf("join: %v", err)
	}

	list, err := svc.ListGroups(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || len(list.List) != 1 || list.List[0].Uuid != approved.Uuid {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list.List[0].MemberCnt != 2 {
		t.Fatalf("member count = %d, want 2", list.List[0].MemberCnt)
	}

	mine, err := svc.LoadMyGroup(ctx, memberActor)
	if err != nil {
		t.Fatalf("load my groups: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != group_status_enum.PENDING {
		t.Fatalf("unexpected own groups: %+v", mine)
	}
}

func TestJoinLeaveIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	g, err := svc.CreateGroup(ctx, adminActor, createReq("club"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.JoinGroup(ctx, memberActor, g.Uuid); err != nil {
			t.Fatalf("join #%d: %v", i, err)
		}
	}
	members, err := svc.GetGroupMembers(ctx, memberActor, g.Uuid)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}

	for i := 0; i < 2; i++ {
		if err := svc.LeaveGroup(ctx, memberActor, g.Uuid); err != nil {
			t.Fatalf("leave #%d: %v", i, err)
		}
	}
	rsp, err := svc.GetGroupInfo(ctx, memberActor, g.Uuid, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rsp.MemberCnt != 1 {
		t.Fatalf("member count = %d, want 1", rsp.MemberCnt)
	}

	if err := svc.JoinGroup(ctx, memberActor, "missing"); !errorx.IsNotFound(err) {
		t.Fatalf("join missing: expected not found, got %v", err)
	}
	if err := svc.JoinGroup(ctx, authz.Anonymous, g.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("anonymous join: expected forbidden, got %v", err)
	}
}

func TestDeleteGroupPermissions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, storetest.New(t))

	g, err := svc.CreateGroup(ctx, memberActor, createReq("to-delete"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteGroup(ctx, otherActor, g.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("stranger delete: expected forbidden, got %v", err)
	}
	if err := svc.DeleteGroup(ctx, adminActor, g.Uuid); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, adminActor, g.Uuid, ""); !errorx.IsNotFound(err) {
		t.Fatalf("deleted group: expected not found, got %v", err)
	}
}

func TestDegradedCreateIsApproved(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newService(t, storetest.NewDegraded(t))

	rsp, err := svc.CreateGroup(ctx, memberActor, createReq("legacy"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rsp.Status != group_status_enum.APPROVED {
		t.Fatalf("degraded status = %s, want approved", rsp.Status)
	}
	if len(pub.events) != 0 {
		t.Fatalf("degraded creation should not emit, got %+v", pub.events)
	}
	list, err := svc.ListGroups(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("degraded list total = %d, want 1", list.Total)
	}
}

// deferredCache 把异步任务攒起来，由测试决定何时、以何种顺序执行
type deferredCache struct {
	*redis.MemoryCache
	mu    sync.Mutex
	tasks []func()
}

func (c *deferredCache) SubmitTask(action func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, action)
}

// runReversed 倒序执行，模拟 worker 之间的乱序
func (c *deferredCache) runReversed() {
	c.mu.Lock()
	tasks := c.tasks
	c.tasks = nil
	c.mu.Unlock()
	for i := len(tasks) - 1; i >= 0; i-- {
		tasks[i]()
	}
}

func (c *deferredCache) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

func TestGroupCacheIgnoresStaleStatus(t *testing.T) {
	ctx := context.Background()
	repos := storetest.New(t)
	cache := &deferredCache{MemoryCache: redis.NewMemoryCache()}
	svc := NewGroupService(repos, cache, &recordingPublisher{})
	key := constants.GROUP_INFO_CACHE_PREFIX

	g, err := svc.CreateGroup(ctx, memberActor, createReq("racy"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetGroupInfo(ctx, memberActor, g.Uuid, ""); err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if n := cache.pending(); n != 0 {
		t.Fatalf("pending group should not be written back, %d tasks queued", n)
	}

	// 读到 pending 的旧请求在审核之后才写回缓存
	stale, _ := json.Marshal(respond.GroupInfoRespond{Uuid: g.Uuid, Status: group_status_enum.PENDING, CreatedBy: memberActor.UserID})
	if err := cache.Set(ctx, key+g.Uuid, string(stale), constants.GROUP_INFO_CACHE_TTL); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repos.Group.CompareAndSetStatus(ctx, g.Uuid, group_status_enum.PENDING, group_status_enum.APPROVED); err != nil {
		t.Fatalf("approve: %v", err)
	}

	rsp, err := svc.GetGroupInfo(ctx, authz.Anonymous, g.Uuid, "")
	if err != nil {
		t.Fatalf("anonymous view after approval: %v", err)
	}
	if rsp.Status != group_status_enum.APPROVED {
		t.Fatalf("status = %s", rsp.Status)
	}
	cache.runReversed()
	if v, _ := cache.Get(ctx, key+g.Uuid); v == "" {
		t.Fatalf("approved group should be cached")
	}

	// 编辑后缓存立即失效，不依赖异步任务
	name := "renamed"
	if _, err := svc.UpdateGroupInfo(ctx, memberActor, request.UpdateGroupInfoRequest{GroupId: g.Uuid, Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v, _ := cache.Get(ctx, key+g.Uuid); v != "" {
		t.Fatalf("cache should be deleted before any task runs")
	}
	rsp, err = svc.GetGroupInfo(ctx, authz.Anonymous, g.Uuid, "")
	if err != nil || rsp.Name != name {
		t.Fatalf("after update: rsp=%+v err=%v", rsp, err)
	}

	if err := svc.JoinGroup(ctx, otherActor, g.Uuid); err != nil {
		t.Fatalf("join: %v", err)
	}
	cache.runReversed()
	if err := svc.LeaveGroup(ctx, otherActor, g.Uuid); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if v, _ := cache.Get(ctx, key+g.Uuid); v != "" {
		t.Fatalf("cache should be deleted synchronously on leave")
	}
}
