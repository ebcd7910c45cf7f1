package core

import "context"

// Store 是键值存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 上层组件只依赖这组固定原语，不依赖具体客户端
//
// 原语语义：
//   - 字符串：Get / SetEx（带过期时间）
//   - 有序列表：RPush 追加、LRange 区间读（负下标表示从尾部计数）
//   - 有序集合：ZAddBatch 批量写分数、ZRevRange 按分数降序读
//   - 管理：Delete、Expire（只刷新 TTL）、Keys（glob 扫描，仅限离线批量使用）
//
// 实现：
//   - store.MemoryStore 实现此接口（测试/开发）
//   - store.RedisStore 实现此接口（生产）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取字符串 key 的值；key 不存在或已过期返回 ErrStoreNotFound
	Get(ctx context.Context, key string) (string, error)

	// SetEx 写入字符串 key 并设置过期时间（秒）
	SetEx(ctx context.Context, key, value string, ttlSeconds int) error

	// RPush 向列表尾部追加若干元素，key 不存在时创建
	RPush(ctx context.Context, key string, values ...string) error

	// LRange 读取列表区间 [start, stop]（闭区间，负下标从尾部计数）
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZAddBatch 向有序集合批量写入 member -> score（存在则覆盖分数）
	ZAddBatch(ctx context.Context, key string, members map[string]float64) error

	// ZRevRange 按分数降序读取有序集合区间 [start, stop]。
	// 分数相同时按 member 字典序降序（与 Redis ZREVRANGE 一致），
	// 该并列顺序属于实现定义行为，两个实现保持一致以便测试确定。
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Delete 删除 key（不存在时为 no-op）
	Delete(ctx context.Context, key string) error

	// Expire 刷新 key 的过期时间（秒），不改变值
	Expire(ctx context.Context, key string, ttlSeconds int) error

	// Keys 按 glob 模式枚举 key。
	// 全库扫描，代价高，仅供批量重算/重建任务使用。
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close 关闭连接/释放资源
	Close() error
}

// ErrStoreNotFound 表示 key 不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
