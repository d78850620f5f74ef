package authz

import (
	"testing"

	"community_server/pkg/errorx"
)

var (
	admin    = Actor{UserID: "admin-1", Role: "admin"}
	owner    = Actor{UserID: "owner-1", Role: "member"}
	stranger = Actor{UserID: "other-1", Role: "member"}
)

func TestAuthorize(t *testing.T) {
	target := Target{OwnerId: owner.UserID}
	tests := []struct {
		name  string
		actor Actor
		op    Op
		allow bool
	}{
		{"member creates group", stranger, OpCreateGroup, true},
		{"anonymous creates group", Anonymous, OpCreateGroup, false},
		{"admin moderates group", admin, OpModerateGroup, true},
		{"owner moderates own group", owner, OpModerateGroup, false},
		{"owner edits group", owner, OpEditGroup, true},
		{"admin edits group", admin, OpEditGroup, true},
		{"stranger edits group", stranger, OpEditGroup, false},
		{"stranger deletes group", stranger, OpDeleteGroup, false},
		{"owner submits post", owner, OpSubmitPost, true},
		{"stranger submits post", stranger, OpSubmitPost, false},
		{"admin moderates post", admin, OpModeratePost, true},
		{"author moderates post", owner, OpModeratePost, false},
		{"owner deletes post", owner, OpDeletePost, true},
		{"member likes", stranger, OpLikePost, true},
		{"anonymous likes", Anonymous, OpLikePost, false},
		{"owner edits comment", owner, OpEditComment, true},
		{"admin edits others comment", admin, OpEditComment, false},
		{"admin deletes others comment", admin, OpDeleteComment, false},
		{"member views pending feed", owner, OpViewPendingFeed, false},
		{"admin views pending feed", admin, OpViewPendingFeed, true},
		{"admin sets role", admin, OpSetUserRole, true},
		{"unknown op", admin, Op(999), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.op, target)
			if tt.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allow && errorx.GetCode(err) != errorx.CodeForbidden {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}
}

func TestAdminRoleRequiresUserID(t *testing.T) {
	if (Actor{Role: "admin"}).IsAdmin() {
		t.Fatal("role without user id must not count as admin")
	}
}
