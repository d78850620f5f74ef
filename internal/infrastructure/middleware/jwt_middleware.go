package middleware

import (
	"net/http"
	"strings"

	"community_server/pkg/enum/user_info/user_role_enum"
	"community_server/pkg/errorx"
	"community_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文中保存调用者信息的 key
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// extractToken 优先读取 Authorization: Bearer 头
// 浏览器建立 WebSocket 时无法设置请求头，允许通过 ?token= 传递
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, true
		}
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}

// parseAccess 解析并校验 Access Token
func parseAccess(token string) (*jwt.Claims, string) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return nil, "Token 已过期或无效，请重新登录"
	}
	// 验证是否为 Access Token
	if claims.Subject != jwt.SubjectAccess {
		return nil, "请使用 Access Token 访问此接口"
	}
	return claims, ""
}

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户 id 和角色存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			abortUnauthorized(c, "请先登录，并使用 Bearer Token")
			return
		}
		claims, msg := parseAccess(token)
		if claims == nil {
			abortUnauthorized(c, msg)
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalJWT 公开接口使用：携带有效 Token 时识别调用者，否则按匿名处理
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := extractToken(c); ok {
			if claims, _ := parseAccess(token); claims != nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// AdminOnly 必须放在 JWTAuth 之后，非管理员返回 403
// Service 层仍会再次校验权限
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != user_role_enum.ADMIN {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodeForbidden,
				"msg":  errorx.ErrForbidden.Msg,
			})
			return
		}
		c.Next()
	}
}
