package cache

import (
	"context"
	"testing"
	"time"
)

func TestJSONHelpersNoOpWhenDisabled(t *testing.T) {
	prev := redisEnabled
	redisEnabled = false
	defer func() { redisEnabled = prev }()

	ctx := context.Background()
	var dest string
	found, err := GetJSON(ctx, "k", &dest)
	if found || err != nil {
		t.Fatalf("GetJSON disabled want (false, nil) got (%v, %v)", found, err)
	}
	if err := SetJSON(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetJSON disabled want nil got %v", err)
	}
	if err := Del(ctx, "k"); err != nil {
		t.Fatalf("Del disabled want nil got %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	prev := redisPrefix
	redisPrefix = "ll"
	defer func() { redisPrefix = prev }()

	if got := buildKey("password_reset:u1"); got != "ll:password_reset:u1" {
		t.Fatalf("buildKey want ll:password_reset:u1 got %q", got)
	}
	if got := buildKey("  "); got != "ll" {
		t.Fatalf("buildKey blank want ll got %q", got)
	}
}
