// Package engine 实现基于物品共现的协同过滤推荐引擎。
//
// 核心思想："被同一批用户点赞的商品，相互相似"——对目标商品，
// 统计其最近点赞用户的最近点赞历史中各候选商品出现的次数（共现频次），
// 以频次为分写入推荐结果。窗口（depth × history）既限制单次重算代价，
// 也引入新近性偏置：久远的点赞不再影响推荐。
package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rushteam/goodsrec/config"
	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/history"
	"github.com/rushteam/goodsrec/pkg/keys"
	"github.com/rushteam/goodsrec/recstore"
	"github.com/rushteam/goodsrec/registry"
)

// DefaultTag 是未指定 tag 时的默认类目
const DefaultTag = "default"

// normalizeID 把外部传入的 id 统一为大写。存储 key 一律大写，
// 若点赞历史里的 id 保留原始大小写，重算时排除商品自身的比较会失配，
// 导致商品推荐出它自己。在引擎边界统一归一化，下层各包无需感知。
func normalizeID(id string) string { return strings.ToUpper(id) }

// Recommender 组合各存储组件，对外提供注册/点赞/推荐/重算接口。
// 除 registry 的读穿缓存外不持有权威状态，全部数据在键值存储中。
type Recommender struct {
	store    core.Store
	settings *config.Settings

	registry *registry.Registry
	history  *history.LikeHistory
	likers   *history.LikerIndex
	recs     *recstore.Store

	logger zerolog.Logger
}

// Option 配置 Recommender 的可选项
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	tagCache *registry.TagCache
}

// WithLogger 注入日志器（默认丢弃日志）
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTagCache 注入标签缓存实例（默认新建，测试可用于隔离/共享缓存）
func WithTagCache(cache *registry.TagCache) Option {
	return func(o *options) { o.tagCache = cache }
}

// New 创建推荐引擎。settings 为 nil 时使用默认配置。
func New(store core.Store, settings *config.Settings, opts ...Option) *Recommender {
	if settings == nil {
		settings = config.Default()
	}
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	reg := registry.New(store, o.tagCache)
	rc := settings.Recommendation
	return &Recommender{
		store:    store,
		settings: settings,
		registry: reg,
		history:  history.NewLikeHistory(store, reg, rc.UserHistoryCount, rc.StrictRegister),
		likers:   history.NewLikerIndex(store, reg, rc.SearchDepth, rc.StrictRegister),
		recs:     recstore.New(store, settings.Expire, rc.Count),
		logger:   o.logger,
	}
}

// Registry 暴露标签注册表（Exists 等辅助查询用）
func (r *Recommender) Registry() *registry.Registry { return r.registry }

// Register 登记商品及其类目。tag 为空时归入 DefaultTag。幂等；
// 用不同 tag 重复登记不受支持（见 registry 包说明）。
func (r *Recommender) Register(ctx context.Context, goodsID, tag string) error {
	if tag == "" {
		tag = DefaultTag
	}
	return r.registry.Register(ctx, normalizeID(goodsID), tag)
}

// Like 记录一次点赞：追加用户历史、追加商品点赞用户倒排；
// 开启实时更新时，在返回前对每个去重后的商品同步重算推荐，
// 此时调用延迟为 O(去重商品数 × depth × history)，正确性优先于延迟。
//
// goodsIDs 为空是前置条件违规，立即报 INVALID_INPUT。
func (r *Recommender) Like(ctx context.Context, userID string, goodsIDs []string) error {
	if len(goodsIDs) == 0 {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: like requires a non-empty goods id list")
	}
	userID = normalizeID(userID)
	normalized := make([]string, len(goodsIDs))
	for i, goodsID := range goodsIDs {
		normalized[i] = normalizeID(goodsID)
	}
	goodsIDs = normalized

	if err := r.history.RecordLikes(ctx, userID, goodsIDs); err != nil {
		return err
	}
	for _, goodsID := range goodsIDs {
		if err := r.likers.RecordLiker(ctx, goodsID, userID); err != nil {
			return err
		}
	}

	if !r.settings.Recommendation.RealTimeUpdate {
		return nil
	}
	seen := make(map[string]struct{}, len(goodsIDs))
	for _, goodsID := range goodsIDs {
		if _, ok := seen[goodsID]; ok {
			continue
		}
		seen[goodsID] = struct{}{}
		if err := r.Update(ctx, goodsID); err != nil {
			return err
		}
		r.logger.Debug().Str("goods_id", goodsID).Str("user_id", userID).
			Msg("realtime recommendation update")
	}
	return nil
}

// Update 重算单个商品的推荐结果：
//  1. 解析商品 tag
//  2. 取最近 depth 个点赞用户
//  3. 拼接各用户最近 history 条点赞（多重集合，不去重——重复加权）
//  4. 对拼接结果统计频次，排除商品自身
//  5. 全量覆盖写入推荐结果
//
// 每次都从头重算，无增量/衰减更新。
func (r *Recommender) Update(ctx context.Context, goodsID string) error {
	goodsID = normalizeID(goodsID)
	tag, err := r.registry.Tag(ctx, goodsID)
	if err != nil {
		return err
	}
	if tag == "" && r.settings.Recommendation.StrictRegister {
		return core.UnregisteredGoods(goodsID)
	}

	likers, err := r.likers.RecentLikersByTag(ctx, tag, goodsID, 0)
	if err != nil {
		return err
	}

	scores := make(map[string]int)
	for _, userID := range likers {
		likes, err := r.history.RecentLikes(ctx, userID, tag, 0)
		if err != nil {
			return err
		}
		for _, candidate := range likes {
			if candidate == goodsID {
				continue
			}
			scores[candidate]++
		}
	}

	return r.recs.Write(ctx, tag, goodsID, scores)
}

// Recommend 返回商品的推荐列表（共现次数降序的商品 id）。
// count <= 0 使用配置的默认条数。
func (r *Recommender) Recommend(ctx context.Context, goodsID string, count int) ([]string, error) {
	goodsID = normalizeID(goodsID)
	tag, err := r.registry.Tag(ctx, goodsID)
	if err != nil {
		return nil, err
	}
	return r.recs.TopN(ctx, tag, goodsID, count)
}

// AllGoodsIDs 枚举全部已注册商品 id。
// 基于 Keys 全库扫描，代价高，仅供批量重算/重建任务使用。
func (r *Recommender) AllGoodsIDs(ctx context.Context) ([]string, error) {
	matched, err := r.store.Keys(ctx, keys.GoodsTagPattern())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matched))
	for _, key := range matched {
		if id := keys.GoodsIDFromTagKey(key); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FullLikes 暴露用户在 tag 下的全部点赞历史（批量重建任务用）
func (r *Recommender) FullLikes(ctx context.Context, userID, tag string) ([]string, error) {
	return r.history.FullLikes(ctx, userID, tag)
}

// RebuildIndex 暴露商品倒排索引重建（批量重建任务用）
func (r *Recommender) RebuildIndex(ctx context.Context, goodsID string, userIDs []string) error {
	return r.likers.Rebuild(ctx, goodsID, userIDs)
}
