package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimitMiddlewareNilClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimitMiddleware(nil, RateLimitRule{Prefix: "rl:test", WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	engine.GET("/x", func(c *gin.Context) { c.Status(200) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != 200 {
			t.Fatalf("request %d want 200 got %d", i, rec.Code)
		}
	}
}

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	keyFunc := KeyByIPAndJSONField("phone_number")

	body := `{"phone_number":"+15555550123"}`
	var key string
	var handlerBody string
	engine := gin.New()
	engine.POST("/x", func(c *gin.Context) {
		key = keyFunc(c)
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			t.Fatalf("read body after key func failed: %v", err)
		}
		handlerBody = string(raw)
		c.Status(200)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if !strings.HasPrefix(key, "+15555550123|") {
		t.Fatalf("key want phone|ip prefix got %q", key)
	}
	if handlerBody != body {
		t.Fatalf("body not restored: %q", handlerBody)
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	keyFunc := KeyByIPAndJSONField("phone_number")

	var key string
	engine := gin.New()
	engine.POST("/x", func(c *gin.Context) {
		key = keyFunc(c)
		c.Status(200)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"other":"field"}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if key == "" || strings.Contains(key, "|") {
		t.Fatalf("missing field should fall back to plain IP, got %q", key)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{int64(5), 5, true},
		{int(7), 7, true},
		{float64(9), 9, true},
		{"nope", 0, false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("toInt64(%v) want (%d,%v) got (%d,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}
