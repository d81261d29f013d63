package handlers

import (
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the router's auth middleware.
const (
	contextUserKey   = "auth_user"
	contextClaimsKey = "auth_claims"
)

func currentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func currentClaims(c *gin.Context) (*service.SessionClaims, bool) {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.SessionClaims)
	return claims, ok && claims != nil
}

func pageParams(c *gin.Context) (int, int) {
	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return fallback
		}
		value = value*10 + int(r-'0')
		if value > 1<<30 {
			return fallback
		}
	}
	if value < 1 {
		return fallback
	}
	return value
}
