package batch

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/rushteam/goodsrec/config"
	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/engine"
	"github.com/rushteam/goodsrec/pkg/keys"
	"github.com/rushteam/goodsrec/store"
)

func newFixture(t *testing.T, s core.Store) (*Driver, *engine.Recommender) {
	t.Helper()
	rec := engine.New(s, config.Default())
	return New(rec, s), rec
}

// 四个商品、两位用户全量互赞：重算后每个商品都应有推荐
func seedCatalog(t *testing.T, ctx context.Context, rec *engine.Recommender) []string {
	t.Helper()
	ids := []string{"A", "B", "C", "D"}
	for _, id := range ids {
		if err := rec.Register(ctx, id, "BOOK"); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range []string{"U1", "U2"} {
		if err := rec.Like(ctx, u, ids); err != nil {
			t.Fatal(err)
		}
	}
	return ids
}

func TestDriver_UpdateAll(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	d, rec := newFixture(t, s)
	ids := seedCatalog(t, ctx, rec)

	if err := d.UpdateAll(ctx, 2, Scope{}); err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		got, err := rec.Recommend(ctx, id, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(ids)-1 {
			t.Fatalf("goods %s: got %v, want %d candidates", id, got, len(ids)-1)
		}
	}
}

func TestDriver_UpdateAllPartitioned(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	d, rec := newFixture(t, s)
	seedCatalog(t, ctx, rec)

	// 目录按枚举位置取模分片：第 1 片只覆盖偶数位（A、C）
	if err := d.UpdateAll(ctx, 1, Scope{Start: 1, Partitions: 2}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"A", "C"} {
		if got, _ := rec.Recommend(ctx, id, 10); len(got) == 0 {
			t.Fatalf("goods %s in shard 1 not updated", id)
		}
	}
	for _, id := range []string{"B", "D"} {
		if got, _ := rec.Recommend(ctx, id, 10); len(got) != 0 {
			t.Fatalf("goods %s outside shard 1 was updated: %v", id, got)
		}
	}

	// 第 2 片补齐剩余商品
	if err := d.UpdateAll(ctx, 1, Scope{Start: 2, Partitions: 2}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"B", "D"} {
		if got, _ := rec.Recommend(ctx, id, 10); len(got) == 0 {
			t.Fatalf("goods %s in shard 2 not updated", id)
		}
	}
}

func TestDriver_UpdateAllInvalidScope(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	d, _ := newFixture(t, s)

	err := d.UpdateAll(ctx, 1, Scope{Start: 3, Partitions: 2})
	if !core.IsInvalidInput(err) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

// failingStore 让指定 key 的有序集合写入失败，模拟单项存储故障
type failingStore struct {
	core.Store
	failKey string
}

var errInjected = errors.New("injected store failure")

func (f *failingStore) ZAddBatch(ctx context.Context, key string, members map[string]float64) error {
	if key == f.failKey {
		return errInjected
	}
	return f.Store.ZAddBatch(ctx, key, members)
}

func TestDriver_UpdateAllIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()
	fs := &failingStore{Store: ms, failKey: keys.Recommendation("BOOK", "B")}
	d, rec := newFixture(t, fs)
	seedCatalog(t, ctx, rec)

	err := d.UpdateAll(ctx, 2, Scope{})
	var batchErr *Error
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *batch.Error, got %v", err)
	}
	if !reflect.DeepEqual(batchErr.Failed, []string{"B"}) {
		t.Fatalf("failed = %v, want [B]", batchErr.Failed)
	}

	// 其余商品不受单项失败影响
	for _, id := range []string{"A", "C", "D"} {
		if got, _ := rec.Recommend(ctx, id, 10); len(got) == 0 {
			t.Fatalf("goods %s not updated despite isolation", id)
		}
	}
}

func TestDriver_RebuildAllIndexes(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	d, rec := newFixture(t, s)

	rec.Register(ctx, "A", "BOOK")
	rec.Register(ctx, "B", "BOOK")
	rec.Like(ctx, "U1", []string{"A", "B"})
	rec.Like(ctx, "U2", []string{"A"})

	// 人为污染 A 的倒排索引
	if err := s.RPush(ctx, keys.LikerIndex("BOOK", "A"), "STALE"); err != nil {
		t.Fatal(err)
	}

	if err := d.RebuildAllIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	// 重建后倒排与点赞历史的倒置完全一致，污染数据消失
	likersA, err := s.LRange(ctx, keys.LikerIndex("BOOK", "A"), 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(likersA)
	if !reflect.DeepEqual(likersA, []string{"U1", "U2"}) {
		t.Fatalf("likers of A = %v, want [U1 U2]", likersA)
	}

	likersB, _ := s.LRange(ctx, keys.LikerIndex("BOOK", "B"), 0, -1)
	if !reflect.DeepEqual(likersB, []string{"U1"}) {
		t.Fatalf("likers of B = %v, want [U1]", likersB)
	}

	// 重建后的索引照常驱动重算
	if err := rec.Update(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	got, _ := rec.Recommend(ctx, "A", 10)
	if !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("got %v, want [B]", got)
	}
}
