package vo

// VideoStatus 视频记录的处理状态。
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

func (s VideoStatus) String() string {
	return string(s)
}

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusPending, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}
