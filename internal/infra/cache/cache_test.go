package cache

import (
	"testing"

	"github.com/John-Robertt/peekrate/internal/domain"
)

func TestRatings_GetSet(t *testing.T) {
	c := New()
	if _, ok := c.Get("Title A"); ok {
		t.Fatalf("期望空缓存未命中")
	}

	c.Set("Title A", "8.4")
	got, ok := c.Get("Title A")
	if !ok {
		t.Fatalf("期望命中缓存，但 ok=false")
	}
	if got != "8.4" {
		t.Fatalf("期望 8.4，实际=%q", got)
	}
}

func TestRatings_NegativeEntryIsAHit(t *testing.T) {
	c := New()
	c.Set("Nope", domain.NotFound)

	got, ok := c.Get("Nope")
	if !ok || got != domain.NotFound {
		t.Fatalf("期望命中 NotFound，实际 ok=%v rating=%q", ok, got)
	}
}

func TestRatings_IgnoresAbsent(t *testing.T) {
	c := New()
	c.Set("Title A", "")
	if _, ok := c.Get("Title A"); ok {
		t.Fatalf("空结果不应写入缓存")
	}
	if c.Len() != 0 {
		t.Fatalf("期望 Len=0，实际=%d", c.Len())
	}
}

func TestRatings_KeysAreVerbatim(t *testing.T) {
	c := New()
	c.Set("Title A", "8.4")
	if _, ok := c.Get("title a"); ok {
		t.Fatalf("Title 不做规范化，大小写不同不应命中")
	}
	if _, ok := c.Get("Title A "); ok {
		t.Fatalf("Title 不做规范化，尾随空白不应命中")
	}
}

func TestRatings_OverwriteSameValue(t *testing.T) {
	c := New()
	c.Set("Title A", "8.4")
	c.Set("Title A", "8.4")
	if c.Len() != 1 {
		t.Fatalf("期望 Len=1，实际=%d", c.Len())
	}
}
