package event

import (
	"context"
	"encoding/json"

	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/kafka"
)

// KafkaPublisher 把视频处理结果事件写入Kafka。
type KafkaPublisher struct {
	client *kafka.Client
	topic  string
}

// NewKafkaPublisher 创建Kafka事件发布器
func NewKafkaPublisher(cfg *config.Config) gateway.EventPublisher {
	return &KafkaPublisher{
		client: kafka.DefaultClient(),
		topic:  cfg.Kafka.Topics.VideoEvents,
	}
}

// PublishVideoEvent 以video_uuid为key写入事件，保证同一视频的事件有序。
func (p *KafkaPublisher) PublishVideoEvent(ctx context.Context, ev gateway.VideoEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.topic, []byte(ev.VideoUUID), payload)
}
