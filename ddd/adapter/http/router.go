package http

import (
	"github.com/gin-gonic/gin"

	"hls-vod-service/ddd/application/app"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/middleware"
)

// Router 路由配置
type Router struct {
	cfg      *config.Config
	videoApp app.VideoApp
}

// NewRouter 创建路由配置
func NewRouter(cfg *config.Config, videoApp app.VideoApp) *Router {
	return &Router{cfg: cfg, videoApp: videoApp}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(middleware.CORSMiddleware(r.cfg.CORS.AllowOrigins))

	videoController := NewVideoController(r.videoApp, r.cfg.Storage.HLSDir)

	v1 := engine.Group("/api/v1")
	{
		videos := v1.Group("/videos")
		{
			videos.POST("", videoController.UploadVideo)
			videos.GET("", videoController.ListVideos)
			videos.GET("/key/:video_id", videoController.GetEncryptionKey)
			videos.GET("/:video_id", videoController.GetVideo)
			// master.m3u8与{variant}.m3u8走同一处理器；{variant}/{segment}.ts下发切片
			videos.GET("/:video_id/:asset", videoController.GetPlaylist)
			videos.GET("/:video_id/:asset/:segment", videoController.GetSegment)
		}
	}

	// 健康检查路由
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "hls-vod-service",
			"version": "1.0.0",
		})
	})
}
