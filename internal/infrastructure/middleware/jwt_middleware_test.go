package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"community_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+c.GetString(CtxRole))
	})
	r.GET("/t", handlers...)
	return r
}

func do(r *gin.Engine, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwt.Init("middleware-secret-middleware-secret", 15, 1)
	access, err := jwt.GenerateAccessToken("u-1", "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	refresh, _, err := jwt.GenerateRefreshToken("u-1")
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	r := newEngine(JWTAuth())

	if w := do(r, "/t", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
	if w := do(r, "/t", "Token "+access); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad scheme: status = %d", w.Code)
	}
	if w := do(r, "/t", "Bearer "+refresh); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token: status = %d", w.Code)
	}
	w := do(r, "/t", "Bearer "+access)
	if w.Code != http.StatusOK || w.Body.String() != "u-1|member" {
		t.Fatalf("valid token: status = %d body = %q", w.Code, w.Body.String())
	}
	w = do(r, "/t?token="+access, "")
	if w.Code != http.StatusOK {
		t.Fatalf("query token: status = %d", w.Code)
	}
}

func TestOptionalJWTAndAdminOnly(t *testing.T) {
	jwt.Init("middleware-secret-middleware-secret", 15, 1)
	member, _ := jwt.GenerateAccessToken("u-1", "member")
	admin, _ := jwt.GenerateAccessToken("a-1", "admin")

	optional := newEngine(OptionalJWT())
	if w := do(optional, "/t", ""); w.Code != http.StatusOK || w.Body.String() != "|" {
		t.Fatalf("anonymous: status = %d body = %q", w.Code, w.Body.String())
	}
	if w := do(optional, "/t", "Bearer garbage"); w.Code != http.StatusOK || w.Body.String() != "|" {
		t.Fatalf("invalid token treated as anonymous: status = %d body = %q", w.Code, w.Body.String())
	}
	if w := do(optional, "/t", "Bearer "+member); w.Body.String() != "u-1|member" {
		t.Fatalf("member: body = %q", w.Body.String())
	}

	adminOnly := newEngine(JWTAuth(), AdminOnly())
	if w := do(adminOnly, "/t", "Bearer "+member); w.Code != http.StatusForbidden {
		t.Fatalf("member on admin route: status = %d", w.Code)
	}
	if w := do(adminOnly, "/t", "Bearer "+admin); w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d", w.Code)
	}
}
