package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first request for a should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("first request for b should pass")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("second request for a should be denied")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 100) {
		t.Fatal("first request should pass")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("k", 1, 100) {
		t.Fatal("bucket should have refilled")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0) {
		t.Fatal("first request should pass")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "k", 1, 0); err == nil {
		t.Fatal("wait on an empty non-refilling bucket should fail with the context")
	}
}

func TestWaitReturnsWhenTokenAvailable(t *testing.T) {
	l := New()
	_ = l.Allow("k", 1, 20)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx, "k", 1, 20); err != nil {
		t.Fatalf("wait should succeed after refill: %v", err)
	}
}
