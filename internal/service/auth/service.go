// Package auth 提供认证相关的业务逻辑
// 处理 Token 签发、刷新、注销，Refresh Token ID 存入缓存实现单点互踢
package auth

import (
	"context"

	myredis "community_server/internal/dao/redis"
	"community_server/internal/dao/store/repository"
	"community_server/internal/dto/respond"
	"community_server/pkg/constants"
	"community_server/pkg/errorx"
	"community_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService // 缓存服务（依赖倒置）
	users repository.UserRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService, users repository.UserRepository) *Service {
	return &Service{
		cache: cache,
		users: users,
	}
}

func tokenKey(userID string) string {
	return constants.USER_TOKEN_PREFIX + userID
}

// IssueTokens 签发双 Token，新的 Token ID 覆盖旧值，其他设备的 Refresh Token 随之失效
func (s *Service) IssueTokens(ctx context.Context, userID, role string) (*respond.TokenRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(userID, role)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userID)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err := s.cache.Set(ctx, tokenKey(userID), tokenID, jwt.RefreshTokenExpiry()); err != nil {
		// 不阻塞登录流程，仅记录日志
		zap.L().Error("存储 Token ID 失败", zap.String("user_id", userID), zap.Error(err))
	}
	return &respond.TokenRespond{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateTokenID 验证用户的 Token ID 是否仍是最新一次登录签发的
func (s *Service) ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, tokenKey(userID))
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

// Refresh 用 Refresh Token 换取新的 Access Token
// 角色从用户表重新读取，管理员调整角色后在下一次刷新时生效
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*respond.TokenRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 已过期或无效，请重新登录")
	}
	// 防止使用 Access Token 刷新
	if claims.Subject != jwt.SubjectRefresh {
		return nil, errorx.New(errorx.CodeUnauthorized, "请使用 Refresh Token")
	}

	valid, err := s.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("读取 Token ID 失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, errorx.New(errorx.CodeUnauthorized, "登录状态已失效，请重新登录")
	}
	if !valid {
		return nil, errorx.New(errorx.CodeUnauthorized, "您的账号已在其他设备登录或已退出，请重新登录")
	}

	user, err := s.users.FindByUuid(ctx, claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "用户不存在，请重新登录")
		}
		return nil, err
	}
	accessToken, err := jwt.GenerateAccessToken(user.Uuid, user.Role)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.TokenRespond{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout 删除 Token ID，已签发的 Refresh Token 全部失效
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, tokenKey(userID)); err != nil {
		zap.L().Error("删除 Token ID 失败", zap.String("user_id", userID), zap.Error(err))
		return errorx.Wrap(err, errorx.CodeCacheError, "注销失败，请稍后重试")
	}
	return nil
}
