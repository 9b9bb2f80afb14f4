package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"hls-vod-service/ddd/domain/port"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/logger"
)

// FFmpegExecutor 基于ffmpeg的变体编码器实现。
// 每个变体同步调用一次ffmpeg，AES-128加密参数经keyinfo文件传入，
// 切片文件名为三位零填充序号，清单内引用绝对base URL。
type FFmpegExecutor struct {
	cfg    *config.Config
	runner port.ProcessRunner
}

// NewFFmpegExecutor 创建ffmpeg编码器。runner为nil时使用真实进程运行器。
func NewFFmpegExecutor(cfg *config.Config, runner port.ProcessRunner) *FFmpegExecutor {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &FFmpegExecutor{cfg: cfg, runner: runner}
}

// EncodeVariant 执行一档编码。非零退出码为致命错误，不重试。
func (e *FFmpegExecutor) EncodeVariant(ctx context.Context, job port.VariantJob) error {
	if strings.TrimSpace(job.InputPath) == "" {
		return errors.New("input path is required")
	}

	ffcfg := e.ffmpegConfig()
	if ffcfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ffcfg.Timeout)
		defer cancel()
	}

	args := e.buildArgs(job)
	binary := ffcfg.BinaryPath
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}

	logger.Infof("ffmpeg command video_uuid=%s variant=%s command=%s %s",
		job.VideoUUID, job.Profile.Name, binary, strings.Join(args, " "))

	if err := e.runner.Run(ctx, binary, args, ""); err != nil {
		return fmt.Errorf("ffmpeg variant %s: %w", job.Profile.Name, err)
	}
	return nil
}

// buildArgs 组装单档编码的参数向量。不经过shell，
// 用户可控的文件名不会被二次解释。
func (e *FFmpegExecutor) buildArgs(job port.VariantJob) []string {
	ffcfg := e.ffmpegConfig()
	preset := ffcfg.Preset
	if strings.TrimSpace(preset) == "" {
		preset = "veryfast"
	}

	variantDir := filepath.Join(job.OutputDir, job.Profile.Name)
	segmentPattern := filepath.Join(variantDir, "%03d.ts")
	playlistPath := filepath.Join(job.OutputDir, job.Profile.PlaylistName())

	args := make([]string, 0, 32)
	args = append(args,
		"-i", job.InputPath,
		"-preset", preset,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c:v", "libx264",
		"-b:v", job.Profile.VideoBitrate,
		"-s:v", job.Profile.Resolution,
		"-c:a", "aac",
		"-b:a", job.Profile.AudioBitrate,
		"-hls_time", "10",
		"-hls_playlist_type", "vod",
		"-hls_list_size", "0",
		"-hls_key_info_file", job.KeyInfoPath,
		"-hls_segment_filename", segmentPattern,
		"-hls_base_url", job.BaseURL,
		"-y",
		playlistPath,
	)
	return args
}

func (e *FFmpegExecutor) ffmpegConfig() config.FFmpegConfig {
	cfg := e.cfg
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	if cfg == nil {
		return config.FFmpegConfig{}
	}
	return cfg.Transcode.FFmpeg
}
