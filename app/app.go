package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adapterhttp "hls-vod-service/ddd/adapter/http"
	videoapp "hls-vod-service/ddd/application/app"
	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/ddd/domain/service"
	"hls-vod-service/ddd/infrastructure/cache"
	"hls-vod-service/ddd/infrastructure/database/persistence"
	"hls-vod-service/ddd/infrastructure/event"
	"hls-vod-service/ddd/infrastructure/executor"
	"hls-vod-service/ddd/infrastructure/storage"
	"hls-vod-service/internal/resource"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/logger"
	"hls-vod-service/pkg/observability"
)

func Run() {
	fmt.Println("[STARTUP] Starting hls-vod-service...")

	// 加载配置
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)

	logger.Infof("hls-vod-service starting version=%s", "1.0.0")

	observability.StartProfiling("hls-vod-service", cfg)

	// 检查 FFmpeg 是否可用，直接在启动阶段失败
	ffmpegBin := cfg.Transcode.FFmpeg.BinaryPath
	if strings.TrimSpace(ffmpegBin) == "" {
		ffmpegBin = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set transcode.ffmpeg.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}

	// 输出目录
	if err := os.MkdirAll(cfg.Storage.HLSDir, 0o755); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to create HLS directory dir=%s error=%v", cfg.Storage.HLSDir, err))
	}

	// 资源初始化
	logger.Infof("Initializing resources...")
	resource.MustInit(cfg)
	defer resource.CloseAll(cfg)
	logger.Infof("Resources initialized")

	// 组装依赖
	uploads, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("Failed to prepare upload storage error=%v", err))
	}

	var statusSink gateway.StatusSink
	if cfg.Redis.Enabled {
		statusSink = cache.NewRedisStatusSink(resource.DefaultRedisResource().Client(), cfg.Redis.StatusTTL)
	}
	var events gateway.EventPublisher
	if cfg.Kafka.Enabled {
		events = event.NewKafkaPublisher(cfg)
	}
	var publisher gateway.SegmentPublisher
	if cfg.Minio.Enabled {
		publisher = storage.NewMinioPublisher(resource.DefaultMinioResource())
	}

	encoder := executor.NewFFmpegExecutor(cfg, nil)
	pipeline := service.NewHLSPipeline(cfg, encoder, statusSink)
	videoRepo := persistence.NewVideoRepository()
	videoAppService := videoapp.NewVideoApp(cfg, videoRepo, uploads, pipeline, events, publisher)

	// HTTP服务
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	adapterhttp.NewRouter(cfg, videoAppService).SetupRoutes(engine)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started address=%s health_url=http://%s/health api_url=http://%s/api/v1", addr, addr, addr)

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")
}

// resolveConfigPath 支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	switch env {
	case "prod", "production":
		return "configs/config.prod.yaml"
	case "", "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
