package history

import (
	"context"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/pkg/keys"
	"github.com/rushteam/goodsrec/registry"
)

// LikerIndex 是商品点赞用户倒排索引。
// RecentLikers 的窗口（depth）是控制单次推荐重算代价与新近性偏置的主要手段：
// 只有最近 depth 个点赞用户会影响推荐，而不是全量历史。
type LikerIndex struct {
	store    core.Store
	registry *registry.Registry

	// defaultDepth 是 RecentLikers 的默认窗口（goods_like_history_search_depth）
	defaultDepth int

	strict bool
}

func NewLikerIndex(store core.Store, reg *registry.Registry, defaultDepth int, strict bool) *LikerIndex {
	return &LikerIndex{
		store:        store,
		registry:     reg,
		defaultDepth: defaultDepth,
		strict:       strict,
	}
}

// RecordLiker 把 userID 追加到 (tag, goods) 的点赞用户列表尾部
func (idx *LikerIndex) RecordLiker(ctx context.Context, goodsID, userID string) error {
	tag, err := idx.registry.Tag(ctx, goodsID)
	if err != nil {
		return err
	}
	if tag == "" && idx.strict {
		return core.UnregisteredGoods(goodsID)
	}
	return idx.store.RPush(ctx, keys.LikerIndex(tag, goodsID), userID)
}

// RecentLikers 返回商品最近追加的 depth 个点赞用户（窗口内从旧到新）。
// depth <= 0 使用默认窗口。
func (idx *LikerIndex) RecentLikers(ctx context.Context, goodsID string, depth int) ([]string, error) {
	tag, err := idx.registry.Tag(ctx, goodsID)
	if err != nil {
		return nil, err
	}
	return idx.RecentLikersByTag(ctx, tag, goodsID, depth)
}

// RecentLikersByTag 同 RecentLikers，但由调用方提供已解析的 tag（避免重复查询）
func (idx *LikerIndex) RecentLikersByTag(ctx context.Context, tag, goodsID string, depth int) ([]string, error) {
	if depth <= 0 {
		depth = idx.defaultDepth
	}
	return idx.store.LRange(ctx, keys.LikerIndex(tag, goodsID), -int64(depth), -1)
}

// Rebuild 用全量 userIDs 重建商品的点赞用户列表：先删后写。
// userIDs 为空时不动现有索引（没有新数据就不销毁索引）。
//
// 删除与写入之间不是原子操作：并发读可能在窗口期内看到空索引，
// 与参考设计保持一致。
func (idx *LikerIndex) Rebuild(ctx context.Context, goodsID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	tag, err := idx.registry.Tag(ctx, goodsID)
	if err != nil {
		return err
	}
	key := keys.LikerIndex(tag, goodsID)
	if err := idx.store.Delete(ctx, key); err != nil {
		return err
	}
	return idx.store.RPush(ctx, key, userIDs...)
}
