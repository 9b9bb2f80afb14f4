package repo

import (
	"context"

	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/vo"
)

// VideoRepository 视频元数据仓储。
type VideoRepository interface {
	Create(ctx context.Context, video *entity.VideoEntity) error
	FindByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error)
	ListAll(ctx context.Context) ([]*entity.VideoEntity, error)
	UpdateStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error
	UpdateError(ctx context.Context, videoUUID string, errorMessage string) error
}
