package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware_NoTokenConfiguredAllowsAll(t *testing.T) {
	os.Unsetenv("API_AUTH_TOKEN")
	r := newTestRouter(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev mode with no token configured, got %d", w.Code)
	}
}

func TestAuthMiddleware_MissingHeaderRejected(t *testing.T) {
	os.Setenv("API_AUTH_TOKEN", "secret-token")
	defer os.Unsetenv("API_AUTH_TOKEN")
	r := newTestRouter(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing Authorization header, got %d", w.Code)
	}
}

func TestAuthMiddleware_WrongTokenRejected(t *testing.T) {
	os.Setenv("API_AUTH_TOKEN", "secret-token")
	defer os.Unsetenv("API_AUTH_TOKEN")
	r := newTestRouter(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong token, got %d", w.Code)
	}
}

func TestAuthMiddleware_CorrectTokenAllowed(t *testing.T) {
	os.Setenv("API_AUTH_TOKEN", "secret-token")
	defer os.Unsetenv("API_AUTH_TOKEN")
	r := newTestRouter(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for correct token, got %d", w.Code)
	}
}

func TestAuthMiddleware_MalformedHeaderRejected(t *testing.T) {
	os.Setenv("API_AUTH_TOKEN", "secret-token")
	defer os.Unsetenv("API_AUTH_TOKEN")
	r := newTestRouter(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic secret-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for malformed header, got %d", w.Code)
	}
}
