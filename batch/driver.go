// Package batch 提供全目录级别的重算与索引重建任务。
// 两类任务都依赖 Keys 全库扫描，属离线/手动触发的重操作。
package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/goodsrec/core"
	"github.com/rushteam/goodsrec/engine"
	"github.com/rushteam/goodsrec/pkg/keys"
)

// Scope 是 UpdateAll 的分片范围（1 起始）。
// 商品目录按枚举位置 i % Partitions 分片，一次调用只处理第 Start-1 片；
// 把目录分摊给 Partitions 个进程时，各进程传入自己的 Start 即可。
// 零值等价于 (1, 1)，即处理全量。
type Scope struct {
	Start      int
	Partitions int
}

func (s Scope) normalized() Scope {
	if s.Partitions <= 0 {
		s.Partitions = 1
	}
	if s.Start <= 0 {
		s.Start = 1
	}
	return s
}

// Error 是批量任务的失败汇总：单项失败不会中断整批，
// 任务结束后以失败商品 id 列表的形式一次性上报。
type Error struct {
	Op     string   // "update_all" / "rebuild_all_indexes"
	Failed []string // 失败的商品 id
}

func (e *Error) Error() string {
	return "batch: " + e.Op + " failed for goods [" + strings.Join(e.Failed, " ") + "]"
}

// Driver 驱动批量重算与索引重建。
type Driver struct {
	rec    *engine.Recommender
	store  core.Store
	logger zerolog.Logger
}

// Option 配置 Driver 的可选项
type Option func(*Driver)

// WithLogger 注入日志器（默认丢弃日志）
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

func New(rec *engine.Recommender, store core.Store, opts ...Option) *Driver {
	d := &Driver{rec: rec, store: store, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// UpdateAll 对分片内的每个已注册商品重算推荐结果。
// proc 限制并发工作协程数（<=1 为串行）；不同商品的重算只读
// 点赞数据、写各自隔离的推荐 key，并发执行不破坏任何不变式。
// 单项失败记入汇总并继续，全部完成后返回 *Error（如有失败）。
func (d *Driver) UpdateAll(ctx context.Context, proc int, scope Scope) error {
	scope = scope.normalized()
	if scope.Start > scope.Partitions {
		return core.NewDomainError(core.ModuleBatch, core.ErrorCodeInvalidInput,
			"batch: scope start exceeds partition count")
	}
	if proc <= 0 {
		proc = 1
	}

	allIDs, err := d.rec.AllGoodsIDs(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(allIDs)/scope.Partitions+1)
	for i, goodsID := range allIDs {
		if i%scope.Partitions == scope.Start-1 {
			ids = append(ids, goodsID)
		}
	}
	d.logger.Info().Int("total", len(allIDs)).Int("shard", len(ids)).
		Int("proc", proc).Int("partition", scope.Start).Int("partitions", scope.Partitions).
		Msg("update all recommendations")

	var (
		mu     sync.Mutex
		failed []string
		eg, _  = errgroup.WithContext(ctx)
	)
	eg.SetLimit(proc)

	for _, goodsID := range ids {
		id := goodsID
		eg.Go(func() error {
			if err := d.rec.Update(ctx, id); err != nil {
				d.logger.Warn().Err(err).Str("goods_id", id).Msg("recommendation update failed")
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if len(failed) > 0 {
		return &Error{Op: "update_all", Failed: failed}
	}
	return nil
}

// RebuildAllIndexes 从全量点赞历史重建所有商品的点赞用户倒排索引：
//  1. 枚举已注册商品与全部 (tag, user) 历史 key
//  2. 把每个用户的完整历史读入内存，按 tag 倒排成 商品 -> 点赞用户列表
//  3. 对有数据的已注册商品逐个全量重建索引
//
// 先全量物化再回写，换取干净的整体重建不变式；内存占用与历史点赞
// 事件总数成正比（约 10 字节/事件，千万级用户时达 GB 量级）。
func (d *Driver) RebuildAllIndexes(ctx context.Context) error {
	goodsIDs, err := d.rec.AllGoodsIDs(ctx)
	if err != nil {
		return err
	}

	historyKeys, err := d.store.Keys(ctx, keys.LikeHistoryPattern())
	if err != nil {
		return err
	}

	// tag -> goodsID -> 点赞用户列表（保留重复：重复点赞加权）
	likersByTag := make(map[string]map[string][]string)
	for _, key := range historyKeys {
		tag, userID, ok := keys.SplitLikeHistoryKey(key)
		if !ok {
			continue
		}
		likes, err := d.rec.FullLikes(ctx, userID, tag)
		if err != nil {
			return err
		}
		bucket := likersByTag[tag]
		if bucket == nil {
			bucket = make(map[string][]string)
			likersByTag[tag] = bucket
		}
		for _, goodsID := range likes {
			bucket[goodsID] = append(bucket[goodsID], userID)
		}
	}

	var failed []string
	for _, bucket := range likersByTag {
		for _, goodsID := range goodsIDs {
			userIDs, ok := bucket[goodsID]
			if !ok {
				continue
			}
			if err := d.rec.RebuildIndex(ctx, goodsID, userIDs); err != nil {
				d.logger.Warn().Err(err).Str("goods_id", goodsID).Msg("index rebuild failed")
				failed = append(failed, goodsID)
			}
		}
	}
	d.logger.Info().Int("goods", len(goodsIDs)).Int("histories", len(historyKeys)).
		Int("failed", len(failed)).Msg("rebuild all indexes")

	if len(failed) > 0 {
		return &Error{Op: "rebuild_all_indexes", Failed: failed}
	}
	return nil
}
