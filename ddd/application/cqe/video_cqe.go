package cqe

import (
	"io"
	"strings"

	"hls-vod-service/pkg/errno"
)

// UploadVideoCmd 上传视频命令。
type UploadVideoCmd struct {
	Title        string
	Description  string
	OriginalName string
	ContentType  string
	File         io.Reader
}

// Validate 校验必填项
func (c *UploadVideoCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errno.ErrMissingParam
	}
	if strings.TrimSpace(c.OriginalName) == "" || c.File == nil {
		return errno.ErrMissingParam
	}
	return nil
}
