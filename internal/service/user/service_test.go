package user

import (
	"context"
	"testing"

	"community_server/internal/dao/redis"
	"community_server/internal/dao/store/storetest"
	"community_server/internal/dto/request"
	"community_server/internal/service/auth"
	"community_server/internal/service/authz"
	"community_server/pkg/enum/user_info/user_role_enum"
	"community_server/pkg/errorx"
	"community_server/pkg/util/jwt"
)

func newService(t *testing.T) *userInfoService {
	t.Helper()
	jwt.Init("test-secret-test-secret-test-secret", 15, 1)
	repos := storetest.New(t)
	authService := auth.NewAuthService(redis.NewMemoryCache(), repos.User)
	return NewUserService(repos, authService, []string{"Boss@Example.com"})
}

func register(t *testing.T, svc *userInfoService, email string) (string, string, string) {
	t.Helper()
	rsp, err := svc.Register(context.Background(), request.RegisterRequest{Email: email, Password: "secret123", FullName: "Tester"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return rsp.User.Uuid, rsp.User.Role, rsp.RefreshToken
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, role, _ := register(t, svc, "user@example.com")
	if role != user_role_enum.MEMBER {
		t.Fatalf("role = %s, want member", role)
	}
	_, role, _ = register(t, svc, "boss@example.com")
	if role != user_role_enum.ADMIN {
		t.Fatalf("bootstrap role = %s, want admin", role)
	}

	_, err := svc.Register(ctx, request.RegisterRequest{Email: "USER@example.com", Password: "secret123", FullName: "Dup"})
	if errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("duplicate email: expected user exist, got %v", err)
	}

	rsp, err := svc.Login(ctx, request.LoginRequest{Email: "user@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := jwt.ParseToken(rsp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != rsp.User.Uuid || claims.Role != user_role_enum.MEMBER {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Login(ctx, request.LoginRequest{Email: "user@example.com", Password: "wrong-pass"}); errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatalf("wrong password: expected invalid password, got %v", err)
	}
	if _, err := svc.Login(ctx, request.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("unknown user: expected user not exist, got %v", err)
	}
	if _, err := svc.Register(ctx, request.RegisterRequest{Email: "not-an-email", Password: "secret123", FullName: "x"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("bad email: expected validation error, got %v", err)
	}
}

func TestRefreshSingleSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	uid, _, oldRefresh := register(t, svc, "user@example.com")

	if _, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: oldRefresh}); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// 再次登录后旧的 Refresh Token 失效
	login, err := svc.Login(ctx, request.LoginRequest{Email: "user@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: oldRefresh}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("stale refresh: expected unauthorized, got %v", err)
	}
	if _, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: login.AccessToken}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("access token as refresh: expected unauthorized, got %v", err)
	}

	if err := svc.Logout(ctx, authz.Actor{UserID: uid, Role: user_role_enum.MEMBER}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("refresh after logout: expected unauthorized, got %v", err)
	}
}

func TestSetUserRoleTakesEffectOnRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	adminId, _, _ := register(t, svc, "boss@example.com")
	uid, _, refresh := register(t, svc, "user@example.com")
	admin := authz.Actor{UserID: adminId, Role: user_role_enum.ADMIN}
	member := authz.Actor{UserID: uid, Role: user_role_enum.MEMBER}

	if _, err := svc.SetUserRole(ctx, member, request.SetUserRoleRequest{UserId: uid, Role: user_role_enum.ADMIN}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("member self-promotion: expected forbidden, got %v", err)
	}
	rsp, err := svc.SetUserRole(ctx, admin, request.SetUserRoleRequest{UserId: uid, Role: user_role_enum.ADMIN})
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if rsp.Role != user_role_enum.ADMIN {
		t.Fatalf("role = %s", rsp.Role)
	}
	if _, err := svc.SetUserRole(ctx, admin, request.SetUserRoleRequest{UserId: "missing", Role: user_role_enum.ADMIN}); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("missing user: expected user not exist, got %v", err)
	}

	tokens, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := jwt.ParseToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != user_role_enum.ADMIN {
		t.Fatalf("refreshed role = %s, want admin", claims.Role)
	}
}

func TestUpdateUserInfo(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	uid, _, _ := register(t, svc, "user@example.com")
	actor := authz.Actor{UserID: uid, Role: user_role_enum.MEMBER}

	bio := "<i>gopher</i>"
	avatar := "https://example.com/a.png"
	rsp, err := svc.UpdateUserInfo(ctx, actor, request.UpdateUserInfoRequest{Bio: &bio, AvatarUrl: &avatar})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rsp.Bio != "gopher" || rsp.AvatarUrl != avatar || rsp.FullName != "Tester" {
		t.Fatalf("unexpected profile: %+v", rsp)
	}

	bad := "not a url"
	if _, err := svc.UpdateUserInfo(ctx, actor, request.UpdateUserInfoRequest{AvatarUrl: &bad}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("bad avatar: expected validation error, got %v", err)
	}
	if _, err := svc.UpdateUserInfo(ctx, authz.Anonymous, request.UpdateUserInfoRequest{Bio: &bio}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("anonymous: expected unauthorized, got %v", err)
	}
}
