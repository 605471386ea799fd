package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestHTTPCache_SaveLoad(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	ctx := context.Background()
	if err := c.Save(ctx, "https://news.example/", "text/html", `"v1"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("<html></html>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(ctx, "https://news.example/")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.ContentType != "text/html" || meta.SavedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, err := c.LoadBody(ctx, "https://news.example/")
	if err != nil || string(body) != "<html></html>" {
		t.Fatalf("body = %q, %v", body, err)
	}
	if _, err := c.LoadMeta(ctx, "https://news.example/other"); err == nil {
		t.Fatalf("expected miss for unknown url")
	}
}

func TestHTTPCache_Unconfigured(t *testing.T) {
	t.Parallel()
	var c *HTTPCache
	if _, err := c.LoadBody(context.Background(), "https://news.example/"); err == nil {
		t.Fatalf("expected error for nil cache")
	}
}

func TestHTTPCache_LRUEnforcement_Count(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	urls := []string{"https://a.com/1", "https://a.com/2", "https://a.com/3"}
	for i, u := range urls {
		if err := c.Save(context.Background(), u, "text/html", "", "", []byte(fmt.Sprintf("body-%d", i))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// touch the first so the second becomes least recently used
	if _, err := c.LoadBody(context.Background(), urls[0]); err != nil {
		t.Fatalf("touch body: %v", err)
	}
	removed, err := EnforceHTTPCacheLimits(dir, 0, 2)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := c.LoadBody(context.Background(), urls[1]); err == nil {
		t.Fatalf("expected least recently used entry evicted")
	}
	if _, err := c.LoadBody(context.Background(), urls[0]); err != nil {
		t.Fatalf("recently used entry evicted: %v", err)
	}
}

func TestHTTPCache_LRUEnforcement_Bytes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	if err := c.Save(context.Background(), "https://b.com/1", "text/html", "", "", []byte("1111111111")); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := c.Save(context.Background(), "https://b.com/2", "text/html", "", "", []byte("22")); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	removed, err := EnforceHTTPCacheLimits(dir, 5, 0)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := c.LoadBody(context.Background(), "https://b.com/2"); err != nil {
		t.Fatalf("small recent entry should survive: %v", err)
	}
}

func TestPurgeHTTPCacheByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	ctx := context.Background()
	if err := c.Save(ctx, "https://old.example/", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Save(ctx, "https://new.example/", "text/html", "", "", []byte("new")); err != nil {
		t.Fatalf("save: %v", err)
	}
	// backdate the first entry
	old := HTTPEntry{URL: "https://old.example/", SavedAt: time.Now().Add(-48 * time.Hour).UTC()}
	b, _ := json.Marshal(old)
	if err := os.WriteFile(c.metaPath(c.key(old.URL)), b, 0o644); err != nil {
		t.Fatalf("backdate: %v", err)
	}
	removed, err := PurgeHTTPCacheByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(c.bodyPath(c.key(old.URL))); !os.IsNotExist(err) {
		t.Fatalf("expected old body removed, stat err = %v", err)
	}
	if _, err := c.LoadBody(ctx, "https://new.example/"); err != nil {
		t.Fatalf("fresh entry purged: %v", err)
	}
	if n, _ := PurgeHTTPCacheByAge(dir, 0); n != 0 {
		t.Fatalf("zero max age must not purge")
	}
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	if err := c.Save(context.Background(), "https://x.example/", "text/html", "", "", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
	if err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
