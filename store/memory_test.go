package store

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/pkg/keys"
)

func TestMemoryStore_GetSetEx(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.SetEx(ctx, "k", "v", 60); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("got (%q, %v), want (v, nil)", got, err)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.SetEx(ctx, "k", "v", 1); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryStore_PersistentTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	// 千年级 TTL 不得因纳秒溢出变成立即过期
	if err := s.SetEx(ctx, "k", "v", keys.PersistentTTLSeconds); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("got (%q, %v), want (v, nil)", got, err)
	}

	if err := s.Expire(ctx, "k", keys.PersistentTTLSeconds); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("expected key to survive persistent expire, got %v", err)
	}
}

func TestMemoryStore_LRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.RPush(ctx, "list", "a", "b", "c", "d", "e"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{"full range", 0, -1, []string{"a", "b", "c", "d", "e"}},
		{"tail window", -3, -1, []string{"c", "d", "e"}},
		{"window larger than list", -10, -1, []string{"a", "b", "c", "d", "e"}},
		{"middle", 1, 3, []string{"b", "c", "d"}},
		{"stop beyond end", 3, 100, []string{"d", "e"}},
		{"inverted", 3, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.LRange(ctx, "list", tt.start, tt.stop)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}

	got, err := s.LRange(ctx, "missing", 0, -1)
	if err != nil || len(got) != 0 {
		t.Fatalf("missing list: got (%v, %v)", got, err)
	}
}

func TestMemoryStore_ZRevRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	err := s.ZAddBatch(ctx, "z", map[string]float64{
		"low": 1, "mid": 2, "high": 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ZRevRange(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// TopN 截断
	got, _ = s.ZRevRange(ctx, "z", 0, 1)
	if !reflect.DeepEqual(got, []string{"high", "mid"}) {
		t.Fatalf("top2: got %v", got)
	}
}

func TestMemoryStore_ZRevRangeTieBreak(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	// 同分成员按字典序降序（与 Redis ZREVRANGE 一致）
	err := s.ZAddBatch(ctx, "z", map[string]float64{
		"B": 2, "C": 2, "A": 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.ZRevRange(ctx, "z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"C", "B", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMemoryStore_DeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.SetEx(ctx, "NS:TAG:A", "x", 0)
	s.SetEx(ctx, "NS:TAG:B", "y", 0)
	s.RPush(ctx, "NS:LIST:A", "v")

	got, err := s.Keys(ctx, "NS:TAG:*")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"NS:TAG:A", "NS:TAG:B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if err := s.Delete(ctx, "NS:TAG:A"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "NS:TAG:A"); !core.IsStoreNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	// 删除不存在的 key 为 no-op
	if err := s.Delete(ctx, "NS:TAG:A"); err != nil {
		t.Fatal(err)
	}
}
