package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/logger"
)

var (
	minioResourceOnce      sync.Once
	singletonMinioResource *MinioResource
)

// MinioResource MinIO资源管理器
type MinioResource struct {
	client     *minio.Client
	bucketName string
}

// DefaultMinioResource 获取MinIO资源单例
func DefaultMinioResource() *MinioResource {
	minioResourceOnce.Do(func() {
		singletonMinioResource = &MinioResource{}
	})
	return singletonMinioResource
}

// MustOpen 初始化MinIO资源
func (r *MinioResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MinioResource")
	}

	minioCfg := cfg.Minio
	if minioCfg.Endpoint == "" {
		panic("minio endpoint is required")
	}
	if minioCfg.BucketName == "" {
		panic("minio bucket_name is required")
	}

	client, err := minio.New(minioCfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioCfg.AccessKeyID, minioCfg.SecretAccessKey, ""),
		Secure: minioCfg.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create minio client: %v", err))
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, minioCfg.BucketName)
	if err != nil {
		panic(fmt.Sprintf("failed to check minio bucket: %v", err))
	}
	if !exists {
		if err := client.MakeBucket(ctx, minioCfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			panic(fmt.Sprintf("failed to create minio bucket: %v", err))
		}
	}

	r.client = client
	r.bucketName = minioCfg.BucketName
	logger.Infof("MinIO resource opened endpoint=%s bucket=%s", minioCfg.Endpoint, minioCfg.BucketName)
}

// Close MinIO客户端无需显式关闭
func (r *MinioResource) Close() {}

// GetClient 获取MinIO客户端
func (r *MinioResource) GetClient() *minio.Client {
	return r.client
}

// GetBucketName 获取bucket名称
func (r *MinioResource) GetBucketName() string {
	return r.bucketName
}
