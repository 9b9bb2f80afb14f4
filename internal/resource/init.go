package resource

import "hls-vod-service/pkg/config"

// MustInit 按配置打开各资源。MySQL是硬依赖；
// Redis/MinIO/Kafka均为可选，未启用时跳过。
func MustInit(cfg *config.Config) {
	DefaultMysqlResource().MustOpen()
	if cfg.Redis.Enabled {
		DefaultRedisResource().MustOpen()
	}
	if cfg.Minio.Enabled {
		DefaultMinioResource().MustOpen()
	}
	if cfg.Kafka.Enabled {
		DefaultKafkaResource().MustOpen()
	}
}

// CloseAll 逆序释放资源
func CloseAll(cfg *config.Config) {
	if cfg.Kafka.Enabled {
		DefaultKafkaResource().Close()
	}
	if cfg.Minio.Enabled {
		DefaultMinioResource().Close()
	}
	if cfg.Redis.Enabled {
		DefaultRedisResource().Close()
	}
	DefaultMysqlResource().Close()
}
