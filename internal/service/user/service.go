package user

import (
	"context"
	"strings"

	"community_server/internal/dao/store/repository"
	"community_server/internal/dto/request"
	"community_server/internal/dto/respond"
	"community_server/internal/infrastructure/sanitize"
	"community_server/internal/infrastructure/validation"
	"community_server/internal/model"
	"community_server/internal/service/auth"
	"community_server/internal/service/authz"
	"community_server/internal/service/convert"
	"community_server/pkg/enum/user_info/user_role_enum"
	"community_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// userInfoService 用户业务逻辑实现
// 通过构造函数注入 Repository 和认证服务
type userInfoService struct {
	repos       *repository.Repositories
	auth        *auth.Service
	adminEmails map[string]struct{}
}

// NewUserService 构造函数
// adminEmails 中的邮箱注册后直接成为管理员
func NewUserService(repos *repository.Repositories, authService *auth.Service, adminEmails []string) *userInfoService {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		emails[normalizeEmail(e)] = struct{}{}
	}
	return &userInfoService{repos: repos, auth: authService, adminEmails: emails}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *userInfoService) roleFor(email string) string {
	if _, ok := u.adminEmails[email]; ok {
		return user_role_enum.ADMIN
	}
	return user_role_enum.MEMBER
}

func (u *userInfoService) loginRespond(ctx context.Context, user *model.UserInfo) (*respond.LoginRespond, error) {
	tokens, err := u.auth.IssueTokens(ctx, user.Uuid, user.Role)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		User:         convert.UserInfo(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Register 邮箱注册，成功后直接登录
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	// 判断邮箱是否已经被注册过了
	if _, err := u.repos.User.FindByEmail(ctx, email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "该邮箱已经注册")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("find user by email error", zap.Error(err))
		return nil, err
	}

	newUser := model.UserInfo{
		Uuid:        uuid.NewString(),
		Email:       email,
		FullName:    sanitize.PlainText(req.FullName),
		RawPassword: req.Password,
		Role:        u.roleFor(email),
	}
	if err := u.repos.User.Create(ctx, &newUser); err != nil {
		if errorx.GetCode(err) == errorx.CodeDuplicate {
			return nil, errorx.New(errorx.CodeUserExist, "该邮箱已经注册")
		}
		zap.L().Error("create user error", zap.Error(err))
		return nil, err
	}
	zap.L().Info("user registered", zap.String("user_id", newUser.Uuid), zap.String("role", newUser.Role))
	return u.loginRespond(ctx, &newUser)
}

// Login 邮箱密码登录
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	user, err := u.repos.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error("find user by email error", zap.Error(err))
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}
	return u.loginRespond(ctx, user)
}

// GetUserInfo 获取单个用户资料
func (u *userInfoService) GetUserInfo(ctx context.Context, userId string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	rsp := convert.UserInfo(user)
	return &rsp, nil
}

// UpdateUserInfo 修改自己的资料
func (u *userInfoService) UpdateUserInfo(ctx context.Context, actor authz.Actor, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error) {
	if !actor.Authenticated() {
		return nil, errorx.ErrUnauthorized
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.FullName != nil {
		name := sanitize.PlainText(*req.FullName)
		if name == "" {
			return nil, errorx.NewValidation(map[string]string{"full_name": "full_name is empty after sanitizing"})
		}
		updates["full_name"] = name
	}
	if req.Bio != nil {
		updates["bio"] = sanitize.PlainText(*req.Bio)
	}
	if req.AvatarUrl != nil {
		updates["avatar_url"] = *req.AvatarUrl
	}
	if err := u.repos.User.UpdateProfile(ctx, actor.UserID, updates); err != nil {
		zap.L().Error("update user info error", zap.Error(err))
		return nil, err
	}
	return u.GetUserInfo(ctx, actor.UserID)
}

// SetUserRole 管理员调整用户角色，新角色在对方下一次刷新 Token 时生效
func (u *userInfoService) SetUserRole(ctx context.Context, actor authz.Actor, req request.SetUserRoleRequest) (*respond.UserInfoRespond, error) {
	if err := authz.Authorize(actor, authz.OpSetUserRole, authz.Target{OwnerId: req.UserId}); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := u.repos.User.UpdateRole(ctx, req.UserId, req.Role); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("update user role error", zap.Error(err))
		return nil, err
	}
	zap.L().Info("user role changed", zap.String("operator", actor.UserID), zap.String("user_id", req.UserId), zap.String("role", req.Role))
	return u.GetUserInfo(ctx, req.UserId)
}

// Refresh 刷新 Access Token
func (u *userInfoService) Refresh(ctx context.Context, req request.RefreshTokenRequest) (*respond.TokenRespond, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return u.auth.Refresh(ctx, req.RefreshToken)
}

// Logout 退出登录
func (u *userInfoService) Logout(ctx context.Context, actor authz.Actor) error {
	if !actor.Authenticated() {
		return errorx.ErrUnauthorized
	}
	return u.auth.Logout(ctx, actor.UserID)
}
