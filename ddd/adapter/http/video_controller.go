package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"hls-vod-service/ddd/application/app"
	"hls-vod-service/ddd/application/cqe"
	"hls-vod-service/pkg/errno"
	"hls-vod-service/pkg/restapi"
)

const (
	contentTypePlaylist = "application/vnd.apple.mpegurl"
	contentTypeSegment  = "video/mp2t"
)

// VideoController 视频上传、查询与HLS产物下发。
type VideoController struct {
	videoApp app.VideoApp
	hlsDir   string
}

// NewVideoController 创建视频控制器
func NewVideoController(videoApp app.VideoApp, hlsDir string) *VideoController {
	return &VideoController{videoApp: videoApp, hlsDir: hlsDir}
}

// UploadVideo 接收multipart上传并同步完成转码打包。
func (ctl *VideoController) UploadVideo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		restapi.Failed(ctx, errno.ErrMissingParam)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		restapi.Failed(ctx, errno.ErrUploadError)
		return
	}
	defer file.Close()

	cmd := &cqe.UploadVideoCmd{
		Title:        ctx.PostForm("title"),
		Description:  ctx.PostForm("description"),
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		File:         file,
	}

	video, err := ctl.videoApp.Upload(ctx.Request.Context(), cmd)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, video)
}

// ListVideos 列出全部视频
func (ctl *VideoController) ListVideos(ctx *gin.Context) {
	videos, err := ctl.videoApp.List(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, videos)
}

// GetVideo 查询单个视频
func (ctl *VideoController) GetVideo(ctx *gin.Context) {
	video, err := ctl.videoApp.Get(ctx.Request.Context(), ctx.Param("video_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, video)
}

// GetEncryptionKey 下发16字节原始密钥。
func (ctl *VideoController) GetEncryptionKey(ctx *gin.Context) {
	keyBytes, err := ctl.videoApp.DeliverKey(ctx.Request.Context(), ctx.Param("video_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/octet-stream", keyBytes)
}

// GetPlaylist 下发master或变体清单。
func (ctl *VideoController) GetPlaylist(ctx *gin.Context) {
	videoID := ctx.Param("video_id")
	playlist := ctx.Param("asset")
	if !safePathPart(videoID) || !safePathPart(playlist) || !strings.HasSuffix(playlist, ".m3u8") {
		restapi.Failed(ctx, errno.ErrManifestMissing)
		return
	}
	ctl.serveFile(ctx, contentTypePlaylist, errno.ErrManifestMissing, videoID, playlist)
}

// GetSegment 下发加密切片。
func (ctl *VideoController) GetSegment(ctx *gin.Context) {
	videoID := ctx.Param("video_id")
	variant := ctx.Param("asset")
	segment := ctx.Param("segment")
	if !safePathPart(videoID) || !safePathPart(variant) || !safePathPart(segment) || !strings.HasSuffix(segment, ".ts") {
		restapi.Failed(ctx, errno.ErrSegmentMissing)
		return
	}
	ctl.serveFile(ctx, contentTypeSegment, errno.ErrSegmentMissing, videoID, variant, segment)
}

func (ctl *VideoController) serveFile(ctx *gin.Context, contentType string, notFound *errno.Errno, parts ...string) {
	path := filepath.Join(append([]string{ctl.hlsDir}, parts...)...)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		restapi.Failed(ctx, notFound)
		return
	}
	ctx.Header("Content-Type", contentType)
	ctx.File(path)
}

// safePathPart 路径片段白名单校验，拒绝目录穿越。
func safePathPart(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
