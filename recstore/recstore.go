// Package recstore 维护 (tag, goods) 维度的推荐结果：
// 候选商品 -> 共现次数的有序集合，带刷新 TTL。
package recstore

import (
	"context"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/pkg/keys"
)

// Store 是推荐结果存储。
type Store struct {
	store core.Store

	// ttlSeconds 是结果的刷新 TTL，每次 Write 时重置；
	// 长期未重算的结果会自然过期，属可接受的过期信号
	ttlSeconds int

	// defaultCount 是 TopN 的默认条数（recommendation_count）
	defaultCount int
}

func New(store core.Store, ttlSeconds, defaultCount int) *Store {
	return &Store{
		store:        store,
		ttlSeconds:   ttlSeconds,
		defaultCount: defaultCount,
	}
}

// Write 全量覆盖 (tag, goods) 的推荐结果：先删除旧集合，再写入全部
// (候选商品, 共现次数) 对，最后刷新 TTL。scores 为空时结果即为空集。
//
// 删除与写入之间不是原子操作：并发读可能在窗口期内看到空结果；
// 同一 (tag, goods) 的两次并发 Write 以后写者的完整集合胜出
// （接受丢失更新，与参考设计保持一致）。
func (s *Store) Write(ctx context.Context, tag, goodsID string, scores map[string]int) error {
	key := keys.Recommendation(tag, goodsID)
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}

	members := make(map[string]float64, len(scores))
	for candidate, count := range scores {
		members[candidate] = float64(count)
	}
	if err := s.store.ZAddBatch(ctx, key, members); err != nil {
		return err
	}
	return s.store.Expire(ctx, key, s.ttlSeconds)
}

// TopN 按共现次数降序返回至多 n 个候选商品 id。
// n <= 0 使用默认条数；n 大于候选集时返回全部。
// 同分并列顺序由存储实现决定（两个内置实现均为 member 字典序降序），
// 属实现定义行为，单一实现内保持稳定。
func (s *Store) TopN(ctx context.Context, tag, goodsID string, n int) ([]string, error) {
	if n <= 0 {
		n = s.defaultCount
	}
	return s.store.ZRevRange(ctx, keys.Recommendation(tag, goodsID), 0, int64(n-1))
}
