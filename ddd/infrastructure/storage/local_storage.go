package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/pkg/errno"
)

// LocalStorage 本地磁盘上传存储。
type LocalStorage struct {
	uploadDir string
}

// NewLocalStorage 创建本地存储，目录不存在时建立。
func NewLocalStorage(uploadDir string) (gateway.UploadStorage, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{uploadDir: uploadDir}, nil
}

// SaveUpload 保存上传内容，返回落盘路径。
// 文件名先做清洗，含路径分隔符或..的名字直接拒绝。
func (s *LocalStorage) SaveUpload(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := filepath.Base(strings.TrimSpace(originalName))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errno.ErrFileNameIllegal
	}

	destPath := filepath.Join(s.uploadDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, r); err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return destPath, nil
}
