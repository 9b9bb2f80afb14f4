package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/ddd/domain/vo"
)

const statusKeyPrefix = "hls:status:"

// RedisStatusSink 把流水线状态写入Redis，供轮询端查询。
type RedisStatusSink struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatusSink 创建状态缓存。ttl<=0时默认24小时。
func NewRedisStatusSink(client *redis.Client, ttl time.Duration) gateway.StatusSink {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStatusSink{client: client, ttl: ttl}
}

// SaveState 写入当前状态
func (s *RedisStatusSink) SaveState(ctx context.Context, videoUUID string, state vo.PipelineState) error {
	return s.client.Set(ctx, statusKey(videoUUID), state.String(), s.ttl).Err()
}

func statusKey(videoUUID string) string {
	return fmt.Sprintf("%s%s", statusKeyPrefix, videoUUID)
}
