package gateway

import (
	"context"
	"io"
)

// UploadStorage 保存上传的源文件，返回可供转码读取的本地路径。
type UploadStorage interface {
	SaveUpload(ctx context.Context, r io.Reader, originalName string) (string, error)
}
