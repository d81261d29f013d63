package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPasswordResetRoutesGatedByAuthMode(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/auth/password/reset", "", gin.H{"email": "a@example.com"})
	if rec.Code != 400 || env.StatusCode != 400 {
		t.Fatalf("request reset in phone mode want 400 got %d/%d", rec.Code, env.StatusCode)
	}

	rec, env = doJSON(t, engine, http.MethodPut, "/api/v1/auth/password/reset", "", gin.H{"token": "x", "password": "battery-staple"})
	if rec.Code != 400 || env.StatusCode != 400 {
		t.Fatalf("confirm reset in phone mode want 400 got %d/%d", rec.Code, env.StatusCode)
	}
}
