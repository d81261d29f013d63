package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowed          []string
		allowCredentials bool
		want             string
	}{
		{"wildcard without credentials", "https://a.test", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes origin", "https://a.test", []string{"*"}, true, "https://a.test"},
		{"exact match", "https://a.test", []string{"https://a.test"}, false, "https://a.test"},
		{"case insensitive match", "https://A.test", []string{"https://a.test"}, false, "https://A.test"},
		{"no match", "https://b.test", []string{"https://a.test"}, false, ""},
		{"empty origin non-wildcard", "", []string{"https://a.test"}, false, ""},
		{"empty allowlist", "https://a.test", nil, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.allowCredentials)
			if got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(config.CORSConfig{
		AllowedOrigins:   []string{"https://app.test"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	engine.POST("/x", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.test")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != 204 {
		t.Fatalf("preflight status want 204 got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.test" {
		t.Fatalf("allow-origin want https://app.test got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow-credentials want true got %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.GET("/x", func(c *gin.Context) { c.Status(200) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id should be assigned")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "incoming-id")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "incoming-id" {
		t.Fatalf("request id want incoming-id got %q", got)
	}
}

func setupAuthMiddlewareTest(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Auth.Mode = constants.AuthModePhone
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	return service.NewAuthService(cfg, repository.NewUserRepository(db), repository.NewSessionRepository(db), nil), db
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService, db := setupAuthMiddlewareTest(t)

	engine := gin.New()
	engine.GET("/me", AuthMiddleware(authService), func(c *gin.Context) {
		user := c.MustGet(ContextUserKey).(*models.User)
		c.String(200, user.ID)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != 401 {
		t.Fatalf("missing header want 401 got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Fatalf("malformed header want 401 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Fatalf("bogus token want 401 got %d", rec.Code)
	}

	user, err := repository.NewUserRepository(db).FindOrCreateByPhone("+15555550123")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	result, err := authService.EstablishPhoneSession(req.Context(), user, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("establish session failed: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("valid token want 200 got %d", rec.Code)
	}
	if rec.Body.String() != user.ID {
		t.Fatalf("handler user want %s got %s", user.ID, rec.Body.String())
	}
}
