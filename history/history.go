// Package history 维护两类只追加的点赞序列：
// 用户维度的点赞历史（(tag, user) -> goods 列表）和
// 商品维度的点赞用户倒排（(tag, goods) -> user 列表）。
// 追加顺序即时间顺序，允许重复（重复点赞加权计入共现）。
package history

import (
	"context"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/pkg/keys"
	"github.com/rushteam/goodsrec/registry"
)

// LikeHistory 是用户点赞历史存储。
type LikeHistory struct {
	store    core.Store
	registry *registry.Registry

	// defaultLimit 是 RecentLikes 的默认窗口（user_history_count）
	defaultLimit int

	// strict 为 true 时，未注册商品的点赞直接报错；
	// 否则归入空 tag 的软分桶（沿用参考实现行为）
	strict bool
}

func NewLikeHistory(store core.Store, reg *registry.Registry, defaultLimit int, strict bool) *LikeHistory {
	return &LikeHistory{
		store:        store,
		registry:     reg,
		defaultLimit: defaultLimit,
		strict:       strict,
	}
}

// RecordLikes 把一批被点赞商品按各自的 tag 分组，
// 逐组追加到 (tag, user) 的历史列表尾部。组内保持输入顺序。
func (h *LikeHistory) RecordLikes(ctx context.Context, userID string, goodsIDs []string) error {
	groups := make(map[string][]string)
	for _, goodsID := range goodsIDs {
		tag, err := h.registry.Tag(ctx, goodsID)
		if err != nil {
			return err
		}
		if tag == "" && h.strict {
			return core.UnregisteredGoods(goodsID)
		}
		groups[tag] = append(groups[tag], goodsID)
	}

	for tag, ids := range groups {
		if err := h.store.RPush(ctx, keys.LikeHistory(tag, userID), ids...); err != nil {
			return err
		}
	}
	return nil
}

// RecentLikes 返回用户在 tag 下最近追加的 limit 条点赞（窗口内从旧到新）。
// limit <= 0 使用默认窗口；无历史时返回空序列。
func (h *LikeHistory) RecentLikes(ctx context.Context, userID, tag string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = h.defaultLimit
	}
	return h.store.LRange(ctx, keys.LikeHistory(tag, userID), -int64(limit), -1)
}

// FullLikes 返回用户在 tag 下的全部点赞历史（从旧到新）。
// 全量读取仅供离线索引重建使用，在线计算一律走窗口化的 RecentLikes。
func (h *LikeHistory) FullLikes(ctx context.Context, userID, tag string) ([]string, error) {
	return h.store.LRange(ctx, keys.LikeHistory(tag, userID), 0, -1)
}
