package redis

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheStringAndPattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_ = c.Set(ctx, "group_info_a", "1", 0)
	_ = c.Set(ctx, "group_info_b", "2", 0)
	_ = c.Set(ctx, "other", "3", 0)

	if v, _ := c.Get(ctx, "group_info_a"); v != "1" {
		t.Fatalf("get = %q", v)
	}
	if err := c.DeleteByPattern(ctx, "group_info_*"); err != nil {
		t.Fatalf("delete pattern: %v", err)
	}
	if v, _ := c.Get(ctx, "group_info_b"); v != "" {
		t.Errorf("group_info_b survived: %q", v)
	}
	if v, _ := c.Get(ctx, "other"); v != "3" {
		t.Errorf("other = %q", v)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	_ = c.Set(ctx, "k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if v, _ := c.Get(ctx, "k"); v != "" {
		t.Errorf("expired key returned %q", v)
	}
}

func TestWorkerPoolRunsTasks(t *testing.T) {
	p := newWorkerPool(2, 4)
	done := make(chan struct{})
	p.submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task not executed")
	}
}
