package store

import (
	"math"
	"time"
)

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 接口。
//
// 示例：
//   var s core.Store = NewMemoryStore()

// ttlDuration 把秒转为 Duration。"永久"级别的超大 TTL（如注册数据的
// 近千年过期）会超出 int64 纳秒的表示范围，直接相乘得到负时长；
// 此处截断为最大可表示时长（约 292 年）作为永久的近似。
func ttlDuration(ttlSeconds int) time.Duration {
	if int64(ttlSeconds) > math.MaxInt64/int64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ttlSeconds) * time.Second
}
