// Package registry 维护商品到类目标签（tag）的映射。
// tag 是推荐的分区命名空间：推荐结果不会跨 tag。
package registry

import (
	"context"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/pkg/keys"
)

// Registry 是商品标签注册表：存储读写 + 进程内读穿缓存。
//
// 约束：商品注册后不支持更换 tag。缓存条目永不失效，
// 其正确性依赖该约束；重复注册不同 tag 属调用方违约，不做强制检查。
type Registry struct {
	store core.Store
	cache *TagCache
}

// New 创建注册表。cache 为 nil 时使用默认容量的缓存。
func New(store core.Store, cache *TagCache) *Registry {
	if cache == nil {
		cache = NewTagCache(0)
	}
	return &Registry{store: store, cache: cache}
}

// Register 登记商品的 tag，近似永久 TTL。幂等。
func (r *Registry) Register(ctx context.Context, goodsID, tag string) error {
	return r.store.SetEx(ctx, keys.GoodsTag(goodsID), tag, keys.PersistentTTLSeconds)
}

// Tag 返回商品的 tag；未注册时返回空串且不报错（策略由上层决定）。
// 只缓存命中的非空 tag，未注册商品后续注册仍能被看到。
func (r *Registry) Tag(ctx context.Context, goodsID string) (string, error) {
	if tag, ok := r.cache.Get(goodsID); ok {
		return tag, nil
	}

	tag, err := r.store.Get(ctx, keys.GoodsTag(goodsID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if tag != "" {
		r.cache.Put(goodsID, tag)
	}
	return tag, nil
}

// Exists 判断商品是否已注册
func (r *Registry) Exists(ctx context.Context, goodsID string) (bool, error) {
	tag, err := r.Tag(ctx, goodsID)
	if err != nil {
		return false, err
	}
	return tag != "", nil
}
