package caching

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.Get("https://example.com/ranking/"); ok {
		t.Fatal("Get() hit on empty cache")
	}
	if err := c.Set("https://example.com/ranking/", []byte("<table></table>")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok := c.Get("https://example.com/ranking/")
	if !ok {
		t.Fatal("Get() miss after Set()")
	}
	if string(data) != "<table></table>" {
		t.Errorf("Get() = %q, want %q", data, "<table></table>")
	}
	if _, ok := c.Get("https://example.com/"); ok {
		t.Error("Get() hit for a different URL")
	}
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("u", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := c.Get("u"); ok {
		t.Error("Get() hit for an expired entry")
	}
}
