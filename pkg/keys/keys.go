// Package keys 定义商品推荐数据在键值存储中的 key 规划。
//
// 所有 key 统一大写（商品/用户 id 视为大小写不敏感），命名空间：
//
//	GOODSREC:GOODS:TAG:{goodsID}                  商品 -> 标签映射（字符串）
//	GOODSREC:USER:LIKE-HISTORY:{tag}:{userID}     用户点赞历史（列表，追加序即时间序）
//	GOODSREC:INDEX:GOODS-USER:{tag}:{goodsID}     商品点赞用户倒排（列表）
//	GOODSREC:GOODS:RECOMMENDATION:{tag}:{goodsID} 推荐结果（有序集合，score 为共现次数）
package keys

import "strings"

const prefix = "GOODSREC"

const (
	goodsTagBase       = prefix + ":GOODS:TAG:"
	likeHistoryBase    = prefix + ":USER:LIKE-HISTORY:"
	likerIndexBase     = prefix + ":INDEX:GOODS-USER:"
	recommendationBase = prefix + ":GOODS:RECOMMENDATION:"
)

// PersistentTTLSeconds 作为"永久"数据的过期时间（约 1000 年）。
const PersistentTTLSeconds = 3600 * 24 * 365 * 1000

// GoodsTag 返回商品标签映射的 key
func GoodsTag(goodsID string) string {
	return strings.ToUpper(goodsTagBase + goodsID)
}

// LikeHistory 返回用户点赞历史的 key
func LikeHistory(tag, userID string) string {
	return strings.ToUpper(likeHistoryBase + tag + ":" + userID)
}

// LikerIndex 返回商品点赞用户倒排的 key
func LikerIndex(tag, goodsID string) string {
	return strings.ToUpper(likerIndexBase + tag + ":" + goodsID)
}

// Recommendation 返回推荐结果的 key
func Recommendation(tag, goodsID string) string {
	return strings.ToUpper(recommendationBase + tag + ":" + goodsID)
}

// GoodsTagPattern 返回标签命名空间的 glob 模式（枚举全部已注册商品用）
func GoodsTagPattern() string {
	return goodsTagBase + "*"
}

// LikeHistoryPattern 返回点赞历史命名空间的 glob 模式（全量索引重建用）
func LikeHistoryPattern() string {
	return likeHistoryBase + "*"
}

// GoodsIDFromTagKey 从标签 key 中还原商品 id；非本命名空间的 key 返回 ""
func GoodsIDFromTagKey(key string) string {
	if !strings.HasPrefix(key, goodsTagBase) {
		return ""
	}
	return strings.TrimPrefix(key, goodsTagBase)
}

// SplitLikeHistoryKey 从点赞历史 key 中还原 (tag, userID)。
//
//	GOODSREC:USER:LIKE-HISTORY:BOOK:035A6959 -> ("BOOK", "035A6959")
//
// 非本命名空间的 key 返回 ok=false。tag 可能为空串（未注册商品的软分桶）。
func SplitLikeHistoryKey(key string) (tag, userID string, ok bool) {
	if !strings.HasPrefix(key, likeHistoryBase) {
		return "", "", false
	}
	rest := strings.TrimPrefix(key, likeHistoryBase)
	i := strings.Index(rest, ":")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
