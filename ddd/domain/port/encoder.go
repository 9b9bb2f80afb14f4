package port

import (
	"context"

	"hls-vod-service/ddd/domain/vo"
)

// VariantJob 单个变体的编码任务描述。
type VariantJob struct {
	VideoUUID   string
	InputPath   string
	OutputDir   string // {hlsDir}/{videoId}
	KeyInfoPath string
	BaseURL     string // 该变体切片的绝对下载前缀，以/结尾
	Profile     vo.VariantProfile
}

// VariantEncoder 对一个变体执行一次同步编码，产出变体清单和切片文件。
// 非零退出或启动失败对整条视频是致命的，实现不做重试。
type VariantEncoder interface {
	EncodeVariant(ctx context.Context, job VariantJob) error
}
