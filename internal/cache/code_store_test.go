package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCodeStoreRoundTrip(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	if err := store.PutCode(ctx, "+15555550123", 123456, time.Minute); err != nil {
		t.Fatalf("put code failed: %v", err)
	}
	code, ok, err := store.GetCode(ctx, "+15555550123")
	if err != nil || !ok {
		t.Fatalf("expected stored code, ok=%v err=%v", ok, err)
	}
	if code != 123456 {
		t.Fatalf("unexpected code: %d", code)
	}

	if err := store.DeleteCode(ctx, "+15555550123"); err != nil {
		t.Fatalf("delete code failed: %v", err)
	}
	if _, ok, _ := store.GetCode(ctx, "+15555550123"); ok {
		t.Fatalf("expected code to be gone after delete")
	}
}

func TestMemoryCodeStoreOverwriteKeepsSingleCode(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	_ = store.PutCode(ctx, "+15555550123", 111111, time.Minute)
	_ = store.PutCode(ctx, "+15555550123", 222222, time.Minute)

	code, ok, _ := store.GetCode(ctx, "+15555550123")
	if !ok || code != 222222 {
		t.Fatalf("expected latest code to win, got ok=%v code=%d", ok, code)
	}
}

func TestMemoryCodeStoreExpiry(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	_ = store.PutCode(ctx, "+15555550123", 654321, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := store.GetCode(ctx, "+15555550123"); ok {
		t.Fatalf("expected expired code to be evicted")
	}
}

func TestMemoryCodeStoreAttemptWindow(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.IncrAttempts(ctx, "+15555550123", time.Minute)
		if err != nil {
			t.Fatalf("incr attempts failed: %v", err)
		}
		if count != i {
			t.Fatalf("unexpected count: got=%d expected=%d", count, i)
		}
	}

	count, err := store.GetAttempts(ctx, "+15555550123")
	if err != nil || count != 3 {
		t.Fatalf("unexpected attempts: count=%d err=%v", count, err)
	}

	if err := store.ClearAttempts(ctx, "+15555550123"); err != nil {
		t.Fatalf("clear attempts failed: %v", err)
	}
	if count, _ := store.GetAttempts(ctx, "+15555550123"); count != 0 {
		t.Fatalf("expected cleared counter, got=%d", count)
	}
}

func TestMemoryCodeStoreWindowAnchoredAtFirstIncrement(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	_, _ = store.IncrAttempts(ctx, "+15555550123", 20*time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	// Second increment must not push the window out.
	_, _ = store.IncrAttempts(ctx, "+15555550123", 20*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	if count, _ := store.GetAttempts(ctx, "+15555550123"); count != 0 {
		t.Fatalf("expected window to expire from first increment, got=%d", count)
	}
}

func TestHashedKeysHidePhoneNumber(t *testing.T) {
	key := codeKey("+15555550123")
	if len(key) != len(codeKeyPrefix)+1+64 {
		t.Fatalf("unexpected key shape: %s", key)
	}
	for _, r := range key {
		if r == '+' {
			t.Fatalf("raw phone leaked into key: %s", key)
		}
	}
	if codeKey("+15555550123") != key {
		t.Fatalf("key derivation must be deterministic")
	}
}
