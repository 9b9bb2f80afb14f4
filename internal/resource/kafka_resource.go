package resource

import "hls-vod-service/pkg/kafka"

type KafkaResource struct{}

func DefaultKafkaResource() *KafkaResource { return &KafkaResource{} }

func (r *KafkaResource) MustOpen() { kafka.DefaultClient().MustOpen() }

func (r *KafkaResource) Close() { kafka.DefaultClient().Close() }
