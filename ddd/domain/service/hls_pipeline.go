package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/ddd/domain/port"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/ddd/infrastructure/crypto"
	"hls-vod-service/ddd/infrastructure/hls"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/logger"
)

// HLSPipeline 单个视频的转码打包流水线。
// 状态机：created → key_material_written → variants_in_progress →
// variants_complete → manifest_written → transient_cleaned → done，
// 任一档编码失败或I/O失败进入failed终态。
// 瞬态密钥文件在key_material_written之后的任何退出路径上都会被清除，
// 成功与失败一视同仁。
type HLSPipeline interface {
	Process(ctx context.Context, video *entity.VideoEntity) (string, error)
}

type hlsPipelineImpl struct {
	cfg     *config.Config
	encoder port.VariantEncoder
	status  gateway.StatusSink // 可为nil
}

// NewHLSPipeline 创建流水线。statusSink为nil时不上报状态。
func NewHLSPipeline(cfg *config.Config, encoder port.VariantEncoder, statusSink gateway.StatusSink) HLSPipeline {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &hlsPipelineImpl{cfg: cfg, encoder: encoder, status: statusSink}
}

// Process 运行整条流水线，成功时返回视频UUID。
func (p *hlsPipelineImpl) Process(ctx context.Context, video *entity.VideoEntity) (string, error) {
	videoUUID := video.VideoUUID()
	ladder := p.ladder()
	if err := ladder.Validate(); err != nil {
		return "", err
	}

	outputDir := filepath.Join(p.cfg.Storage.HLSDir, videoUUID)
	p.report(ctx, videoUUID, vo.PipelineCreated)

	// created: 输出目录树，含各变体切片子目录
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	for _, profile := range ladder {
		if err := os.MkdirAll(filepath.Join(outputDir, profile.Name), 0o755); err != nil {
			return "", fmt.Errorf("create variant dir %s: %w", profile.Name, err)
		}
	}

	// key_material_written: 写出enc.key/enc.keyinfo
	keyBytes, err := video.KeyBytes()
	if err != nil {
		return "", fmt.Errorf("decode key hex: %w", err)
	}
	keyURL := fmt.Sprintf("%s/api/v1/videos/key/%s", p.cfg.Public.BaseURL, videoUUID)
	// 此后任何退出路径都要清掉密钥文件，包括写入中途失败。
	// 状态上清理发生在done/failed之前。
	failed := false
	defer func() {
		crypto.PurgeTransientKeyArtifacts(outputDir)
		p.report(ctx, videoUUID, vo.PipelineTransientCleaned)
		if failed {
			p.report(ctx, videoUUID, vo.PipelineFailed)
		} else {
			p.report(ctx, videoUUID, vo.PipelineDone)
		}
	}()
	if err := crypto.WriteTransientKeyArtifacts(outputDir, keyBytes, video.IVHex(), keyURL); err != nil {
		failed = true
		return "", err
	}
	p.report(ctx, videoUUID, vo.PipelineKeyMaterialWritten)

	// variants_in_progress: 按梯子顺序编码各档
	p.report(ctx, videoUUID, vo.PipelineVariantsInProgress)
	if err := p.encodeLadder(ctx, video, ladder, outputDir); err != nil {
		failed = true
		return "", err
	}
	p.report(ctx, videoUUID, vo.PipelineVariantsComplete)

	// manifest_written: 全部成功后才落master清单
	masterPath, err := hls.WriteMasterPlaylist(outputDir, ladder)
	if err != nil {
		failed = true
		return "", err
	}
	p.report(ctx, videoUUID, vo.PipelineManifestWritten)

	logger.Infof("hls pipeline finished video_uuid=%s master=%s variants=%d",
		videoUUID, masterPath, len(ladder))
	return videoUUID, nil
}

// encodeLadder 以有界并发运行各档编码。首个失败取消其余任务。
// master清单顺序始终由梯子定义，与完成顺序无关。
func (p *hlsPipelineImpl) encodeLadder(ctx context.Context, video *entity.VideoEntity, ladder vo.Ladder, outputDir string) error {
	workers := p.cfg.Transcode.FFmpeg.MaxConcurrentTasks
	if workers <= 0 {
		workers = 1
	}

	jobs := make([]port.VariantJob, 0, len(ladder))
	for _, profile := range ladder {
		jobs = append(jobs, port.VariantJob{
			VideoUUID:   video.VideoUUID(),
			InputPath:   video.FilePath(),
			OutputDir:   outputDir,
			KeyInfoPath: crypto.KeyInfoFilePath(outputDir),
			BaseURL:     fmt.Sprintf("%s/api/v1/videos/%s/%s/", p.cfg.Public.BaseURL, video.VideoUUID(), profile.Name),
			Profile:     profile,
		})
	}

	if workers == 1 {
		for _, job := range jobs {
			logger.Infof("encoding variant video_uuid=%s variant=%s resolution=%s bitrate=%s",
				job.VideoUUID, job.Profile.Name, job.Profile.Resolution, job.Profile.VideoBitrate)
			if err := p.encoder.EncodeVariant(ctx, job); err != nil {
				return err
			}
		}
		return nil
	}

	encodeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	sem := make(chan struct{}, workers)
	for _, job := range jobs {
		wg.Add(1)
		go func(job port.VariantJob) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-encodeCtx.Done():
				return
			}
			logger.Infof("encoding variant video_uuid=%s variant=%s resolution=%s bitrate=%s",
				job.VideoUUID, job.Profile.Name, job.Profile.Resolution, job.Profile.VideoBitrate)
			if err := p.encoder.EncodeVariant(encodeCtx, job); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(job)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return encodeCtx.Err()
}

func (p *hlsPipelineImpl) ladder() vo.Ladder {
	if len(p.cfg.Transcode.Ladder) == 0 {
		return vo.DefaultLadder()
	}
	ladder := make(vo.Ladder, 0, len(p.cfg.Transcode.Ladder))
	for _, lp := range p.cfg.Transcode.Ladder {
		ladder = append(ladder, vo.VariantProfile{
			Name:         lp.Name,
			Resolution:   lp.Resolution,
			VideoBitrate: lp.VideoBitrate,
			AudioBitrate: lp.AudioBitrate,
		})
	}
	return ladder
}

func (p *hlsPipelineImpl) report(ctx context.Context, videoUUID string, state vo.PipelineState) {
	if p.status == nil {
		return
	}
	if err := p.status.SaveState(ctx, videoUUID, state); err != nil {
		logger.Warnf("failed to record pipeline state video_uuid=%s state=%s error=%v", videoUUID, state, err)
	}
}
