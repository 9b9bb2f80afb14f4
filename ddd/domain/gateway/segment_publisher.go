package gateway

import "context"

// SegmentPublisher 将一个视频完成后的切片/清单目录树镜像到对象存储。
// 仅处理终态产物，瞬态密钥文件在发布前已被清除。
type SegmentPublisher interface {
	PublishTree(ctx context.Context, videoUUID string, localDir string) error
}
