package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	Minio     MinioConfig     `mapstructure:"minio"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Transcode TranscodeConfig `mapstructure:"transcode"`
	Public    PublicConfig    `mapstructure:"public"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
	StatusTTL    time.Duration `mapstructure:"status_ttl"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	BootstrapServers []string `mapstructure:"bootstrap_servers"`
	ClientID         string   `mapstructure:"client_id"`
	Topics           struct {
		VideoEvents string `mapstructure:"video_events"`
	} `mapstructure:"topics"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// StorageConfig 本地存储目录配置
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
	HLSDir    string `mapstructure:"hls_dir"`
}

// TranscodeConfig 转码配置
type TranscodeConfig struct {
	FFmpeg FFmpegConfig    `mapstructure:"ffmpeg"`
	Ladder []LadderProfile `mapstructure:"ladder"`
}

// LadderProfile 输出梯子中的一档
type LadderProfile struct {
	Name         string `mapstructure:"name"`
	Resolution   string `mapstructure:"resolution"`
	VideoBitrate string `mapstructure:"video_bitrate"`
	AudioBitrate string `mapstructure:"audio_bitrate"`
}

// FFmpegConfig FFmpeg相关配置
type FFmpegConfig struct {
	BinaryPath         string        `mapstructure:"binary_path"`
	Preset             string        `mapstructure:"preset"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxConcurrentTasks int           `mapstructure:"max_concurrent_tasks"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// ProfilingConfig pyroscope接入配置
type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// SetGlobalConfig 设置全局配置（启动时调用一次）
func SetGlobalConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig 获取全局配置
func GetGlobalConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("storage.upload_dir", "videos")
	viper.SetDefault("storage.hls_dir", "videos_hls")
	viper.SetDefault("transcode.ffmpeg.binary_path", "ffmpeg")
	viper.SetDefault("transcode.ffmpeg.preset", "veryfast")
	viper.SetDefault("transcode.ffmpeg.timeout", 2*time.Hour)
	viper.SetDefault("transcode.ffmpeg.max_concurrent_tasks", 1)
	viper.SetDefault("kafka.client_id", "hls-vod-service")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.video_events", "video.events")
	viper.SetDefault("redis.status_ttl", 24*time.Hour)
	viper.SetDefault("cors.allow_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// 设置环境变量前缀
	viper.SetEnvPrefix("HLS_VOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Public.BaseURL == "" {
		c.Public.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Public.BaseURL = strings.TrimRight(c.Public.BaseURL, "/")

	if c.Transcode.FFmpeg.MaxConcurrentTasks <= 0 {
		c.Transcode.FFmpeg.MaxConcurrentTasks = 1
	}

	// 未配置梯子时使用默认三档
	if len(c.Transcode.Ladder) == 0 {
		c.Transcode.Ladder = []LadderProfile{
			{Name: "360p", Resolution: "640x360", VideoBitrate: "800k", AudioBitrate: "128k"},
			{Name: "720p", Resolution: "1280x720", VideoBitrate: "2800k", AudioBitrate: "128k"},
			{Name: "1080p", Resolution: "1920x1080", VideoBitrate: "5000k", AudioBitrate: "128k"},
		}
	}
}

// GetDSN 构造MySQL连接串
func (c *DatabaseConfig) GetDSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	loc := c.Loc
	if loc == "" {
		loc = "Local"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset, c.ParseTime, loc)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetMinioEndpoint 获取MinIO端点
func (c *MinioConfig) GetMinioEndpoint() string {
	return c.Endpoint
}
