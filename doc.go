// Package goodsrec 是基于物品共现的协同过滤推荐引擎（goods recommender）。
//
// 设计要点：
// - 数据全部落在键值存储（Redis）：商品标签、点赞历史、倒排索引、推荐结果
// - 窗口化共现计数：depth × history 双窗口限定单次重算代价与新近性偏置
// - 推荐按类目（tag）分区，结果不跨 tag
// - 批量任务：全目录重算（可分片并行）与全量索引重建
package goodsrec

import (
	"github.com/rushteam/goodsrec/batch"
	"github.com/rushteam/goodsrec/config"
	"github.com/rushteam/goodsrec/engine"
)

// 轻量 facade：便于用户直接 import goodsrec 使用核心抽象。
type Recommender = engine.Recommender
type Settings = config.Settings
type Driver = batch.Driver
type Scope = batch.Scope

const DefaultTag = engine.DefaultTag
