package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/internal/resource"
	"hls-vod-service/pkg/logger"
)

// MinioPublisher 把一个视频的终态产物树（清单+切片）镜像到对象存储。
type MinioPublisher struct {
	minioResource *resource.MinioResource
}

// NewMinioPublisher 创建MinIO发布器
func NewMinioPublisher(minioResource *resource.MinioResource) gateway.SegmentPublisher {
	return &MinioPublisher{minioResource: minioResource}
}

// PublishTree 上传localDir下的全部文件到 hls/{videoUUID}/... 。
// 调用方保证瞬态密钥文件已被清除。
func (p *MinioPublisher) PublishTree(ctx context.Context, videoUUID string, localDir string) error {
	client := p.minioResource.GetClient()
	bucketName := p.minioResource.GetBucketName()

	count := 0
	err := filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		objectKey := fmt.Sprintf("hls/%s/%s", videoUUID, filepath.ToSlash(rel))

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		_, err = client.PutObject(ctx, bucketName, objectKey, file, info.Size(), minio.PutObjectOptions{
			ContentType: contentTypeFor(path),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", objectKey, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("hls tree published to minio", map[string]interface{}{
		"video_uuid": videoUUID,
		"bucket":     bucketName,
		"objects":    count,
	})
	return nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}
