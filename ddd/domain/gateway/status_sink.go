package gateway

import (
	"context"

	"hls-vod-service/ddd/domain/vo"
)

// StatusSink 记录流水线状态变化，供轮询方查询而不打数据库。
// 实现必须容忍写入失败（降级为日志）。
type StatusSink interface {
	SaveState(ctx context.Context, videoUUID string, state vo.PipelineState) error
}
