package gateway

import "context"

// VideoEvent 流水线结束后对外发布的事件。
type VideoEvent struct {
	Type      string `json:"type"` // video.processed | video.failed
	VideoUUID string `json:"video_uuid"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// EventPublisher 发布视频处理事件，失败只记日志不影响流水线结果。
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event VideoEvent) error
}
