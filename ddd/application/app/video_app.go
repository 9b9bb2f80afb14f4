package app

import (
	"context"
	"path/filepath"
	"time"

	"hls-vod-service/ddd/application/cqe"
	"hls-vod-service/ddd/application/dto"
	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/ddd/domain/repo"
	"hls-vod-service/ddd/domain/service"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/ddd/infrastructure/crypto"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/errno"
	"hls-vod-service/pkg/logger"
)

// VideoApp 视频应用服务：上传入库、转码打包、查询、密钥下发。
type VideoApp interface {
	Upload(ctx context.Context, cmd *cqe.UploadVideoCmd) (*dto.VideoDTO, error)
	Get(ctx context.Context, videoUUID string) (*dto.VideoDTO, error)
	List(ctx context.Context) ([]*dto.VideoDTO, error)
	DeliverKey(ctx context.Context, videoUUID string) ([]byte, error)
}

type videoAppImpl struct {
	cfg       *config.Config
	videoRepo repo.VideoRepository
	uploads   gateway.UploadStorage
	pipeline  service.HLSPipeline
	events    gateway.EventPublisher   // 可为nil
	publisher gateway.SegmentPublisher // 可为nil
	hlsDir    string
}

// NewVideoApp 组装视频应用服务。events与publisher按配置可缺省。
func NewVideoApp(
	cfg *config.Config,
	videoRepo repo.VideoRepository,
	uploads gateway.UploadStorage,
	pipeline service.HLSPipeline,
	events gateway.EventPublisher,
	publisher gateway.SegmentPublisher,
) VideoApp {
	return &videoAppImpl{
		cfg:       cfg,
		videoRepo: videoRepo,
		uploads:   uploads,
		pipeline:  pipeline,
		events:    events,
		publisher: publisher,
		hlsDir:    cfg.Storage.HLSDir,
	}
}

// Upload 保存源文件、生成密钥并同步跑完整条转码流水线。
// 密钥与IV在建档时生成一次，之后不再轮换。
func (a *videoAppImpl) Upload(ctx context.Context, cmd *cqe.UploadVideoCmd) (*dto.VideoDTO, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	filePath, err := a.uploads.SaveUpload(ctx, cmd.File, cmd.OriginalName)
	if err != nil {
		logger.Errorf("failed to store uploaded file name=%s error=%v", cmd.OriginalName, err)
		return nil, errno.ErrUploadError
	}

	keyBytes, err := crypto.GenerateKey()
	if err != nil {
		return nil, errno.ErrEntropyUnavailable
	}
	ivBytes, err := crypto.GenerateIV()
	if err != nil {
		return nil, errno.ErrEntropyUnavailable
	}

	video := entity.NewVideoEntity(cmd.Title, cmd.Description, filePath, cmd.ContentType, keyBytes, ivBytes)
	if err := a.videoRepo.Create(ctx, video); err != nil {
		logger.Errorf("failed to create video record video_uuid=%s error=%v", video.VideoUUID(), err)
		return nil, errno.ErrDatabase
	}

	if err := a.process(ctx, video); err != nil {
		return nil, err
	}

	fresh, err := a.videoRepo.FindByUUID(ctx, video.VideoUUID())
	if err != nil {
		return nil, err
	}
	return dto.FromEntity(fresh, a.cfg.Public.BaseURL), nil
}

// process 跑流水线并维护记录状态与事件。
func (a *videoAppImpl) process(ctx context.Context, video *entity.VideoEntity) error {
	videoUUID := video.VideoUUID()
	_ = a.videoRepo.UpdateStatus(ctx, videoUUID, vo.VideoStatusProcessing)

	if _, err := a.pipeline.Process(ctx, video); err != nil {
		logger.Errorf("hls pipeline failed video_uuid=%s error=%v", videoUUID, err)
		if dbErr := a.videoRepo.UpdateError(ctx, videoUUID, err.Error()); dbErr != nil {
			logger.Errorf("failed to persist failure video_uuid=%s error=%v", videoUUID, dbErr)
		}
		a.publishEvent(ctx, "video.failed", videoUUID, err.Error())
		return errno.ErrTranscodeFailed
	}

	if err := a.videoRepo.UpdateStatus(ctx, videoUUID, vo.VideoStatusCompleted); err != nil {
		logger.Errorf("failed to persist completion video_uuid=%s error=%v", videoUUID, err)
	}
	a.publishEvent(ctx, "video.processed", videoUUID, "")
	a.mirrorTree(ctx, videoUUID)
	return nil
}

// Get 查询单个视频
func (a *videoAppImpl) Get(ctx context.Context, videoUUID string) (*dto.VideoDTO, error) {
	video, err := a.videoRepo.FindByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return dto.FromEntity(video, a.cfg.Public.BaseURL), nil
}

// List 列出全部视频
func (a *videoAppImpl) List(ctx context.Context) ([]*dto.VideoDTO, error) {
	videos, err := a.videoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.VideoDTO, 0, len(videos))
	for _, v := range videos {
		result = append(result, dto.FromEntity(v, a.cfg.Public.BaseURL))
	}
	return result, nil
}

// DeliverKey 返回16字节原始密钥。无记录或无密钥时返回NotFound。
func (a *videoAppImpl) DeliverKey(ctx context.Context, videoUUID string) ([]byte, error) {
	video, err := a.videoRepo.FindByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	keyBytes, err := video.KeyBytes()
	if err != nil || len(keyBytes) != crypto.KeySize {
		return nil, errno.ErrKeyNotFound
	}
	return keyBytes, nil
}

func (a *videoAppImpl) publishEvent(ctx context.Context, eventType, videoUUID, errMsg string) {
	if a.events == nil {
		return
	}
	ev := gateway.VideoEvent{
		Type:      eventType,
		VideoUUID: videoUUID,
		Error:     errMsg,
		Timestamp: time.Now().Unix(),
	}
	if err := a.events.PublishVideoEvent(ctx, ev); err != nil {
		logger.Warnf("failed to publish video event type=%s video_uuid=%s error=%v", eventType, videoUUID, err)
	}
}

func (a *videoAppImpl) mirrorTree(ctx context.Context, videoUUID string) {
	if a.publisher == nil {
		return
	}
	localDir := filepath.Join(a.hlsDir, videoUUID)
	if err := a.publisher.PublishTree(ctx, videoUUID, localDir); err != nil {
		logger.Warnf("failed to mirror hls tree video_uuid=%s error=%v", videoUUID, err)
	}
}
