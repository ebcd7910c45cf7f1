// Package config 提供推荐引擎的 YAML 配置加载与默认值。
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RedisSettings 是键值存储端点配置。
// 连接池/超时字段为 0 时使用客户端默认值。
type RedisSettings struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`

	PoolSize            int `yaml:"pool_size"`
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	MaxRetries          int `yaml:"max_retries"`
}

// Addr 返回 host:port 形式的连接地址
func (r RedisSettings) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// RecommendationSettings 是推荐计算的可调参数。
type RecommendationSettings struct {
	// RealTimeUpdate 为 true 时，like 调用会在返回前同步重算
	// 每个被点赞商品的推荐列表（正确性优先于延迟）
	RealTimeUpdate bool `yaml:"recommendation_real_time_update"`

	// Count 是推荐结果的默认 TopN 条数
	Count int `yaml:"recommendation_count"`

	// SearchDepth 是参与计算的商品最近点赞用户数上限，
	// 与 UserHistoryCount 共同决定单次重算的代价 O(depth × history)
	SearchDepth int `yaml:"goods_like_history_search_depth"`

	// UserHistoryCount 是参与计算的用户最近点赞数上限
	UserHistoryCount int `yaml:"user_history_count"`

	// StrictRegister 为 true 时，引用未注册商品的 like/update 直接报
	// UNREGISTERED 错误；为 false 时沿用软分桶行为（归入空 tag）
	StrictRegister bool `yaml:"strict_register"`
}

// Settings 是完整配置。
type Settings struct {
	Redis RedisSettings `yaml:"redis"`

	// Expire 是推荐结果的刷新 TTL（秒），每次写入时重置；
	// 长期未重算的推荐集合会自然过期，视为过期信号而非数据丢失
	Expire int `yaml:"expire"`

	Recommendation RecommendationSettings `yaml:"recommendation"`
}

// Default 返回默认配置。
func Default() *Settings {
	return &Settings{
		Redis: RedisSettings{
			Host: "127.0.0.1",
			Port: 6379,
		},
		Expire: 3600 * 24 * 7,
		Recommendation: RecommendationSettings{
			Count:            10,
			SearchDepth:      100,
			UserHistoryCount: 30,
		},
	}
}

// Load 从 YAML 文件加载配置，缺省字段回落到默认值。
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 把零值字段回填为默认值（yaml 显式写 0 与缺省同义）。
func (s *Settings) applyDefaults() {
	def := Default()
	if s.Redis.Host == "" {
		s.Redis.Host = def.Redis.Host
	}
	if s.Redis.Port == 0 {
		s.Redis.Port = def.Redis.Port
	}
	if s.Expire == 0 {
		s.Expire = def.Expire
	}
	if s.Recommendation.Count == 0 {
		s.Recommendation.Count = def.Recommendation.Count
	}
	if s.Recommendation.SearchDepth == 0 {
		s.Recommendation.SearchDepth = def.Recommendation.SearchDepth
	}
	if s.Recommendation.UserHistoryCount == 0 {
		s.Recommendation.UserHistoryCount = def.Recommendation.UserHistoryCount
	}
}
