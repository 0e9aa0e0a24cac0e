package cache

import (
	"context"
	"encoding/json"
	"time"

	"linkhub-platform/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "shortlink:"

// Snapshot 是写入缓存的链接快照
//
// 缓存只是加速层，不是可信来源；快照里携带 expires_at，
// 命中时据此复查过期，避免 TTL 窗口内放行已过期的链接。
type Snapshot struct {
	OriginalURL  string     `json:"original_url"`
	ShortCode    string     `json:"short_code"`
	Clicks       int64      `json:"clicks"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// SnapshotOf 从链接记录构造缓存快照
func SnapshotOf(link *model.Link) *Snapshot {
	return &Snapshot{
		OriginalURL:  link.OriginalURL,
		ShortCode:    link.ShortCode,
		Clicks:       link.Clicks,
		ExpiresAt:    link.ExpiresAt,
		LastAccessed: link.LastAccessed,
	}
}

// LinkCache 是 Redis 之上的薄封装，所有操作都是尽力而为：
// Redis 不可用或缓存值损坏一律按未命中处理，绝不让调用方失败。
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewLinkCache 创建缓存客户端，client 可以为 nil（缓存整体退化为空操作）
func NewLinkCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *LinkCache {
	return &LinkCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("link_cache"),
	}
}

// Get 读取短码对应的缓存快照，未命中或解码失败返回 (nil, false)
func (c *LinkCache) Get(ctx context.Context, code string) (*Snapshot, bool) {
	if c.client == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, keyPrefix+code).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("读取缓存失败: %v", err)
		}
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		// 缓存值损坏，当作未命中并清理掉
		c.logger.Warnf("缓存条目解码失败, 已丢弃: %v", err)
		c.client.Del(ctx, keyPrefix+code)
		return nil, false
	}
	return &snap, true
}

// Set 写入缓存快照并重置 TTL
func (c *LinkCache) Set(ctx context.Context, snap *Snapshot) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warnf("缓存条目编码失败: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, keyPrefix+snap.ShortCode, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("写入缓存失败: %v", err)
	}
}

// Delete 删除短码对应的缓存条目
func (c *LinkCache) Delete(ctx context.Context, code string) {
	if c.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, keyPrefix+code).Err(); err != nil {
		c.logger.Warnf("删除缓存失败: %v", err)
	}
}
