package hls

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hls-vod-service/ddd/domain/vo"
)

const (
	// MasterPlaylistName master清单文件名
	MasterPlaylistName = "master.m3u8"

	// 输出固定为libx264 Main profile + AAC-LC
	codecTags = "avc1.4d401f,mp4a.40.2"

	masterHeader = "#EXTM3U\n#EXT-X-VERSION:3\n"
)

// BuildMasterPlaylist 按梯子声明顺序生成master清单文本。
// 纯函数：给定梯子即确定输出，与各档完成顺序无关。
func BuildMasterPlaylist(ladder vo.Ladder) (string, error) {
	var b strings.Builder
	b.WriteString(masterHeader)
	for _, p := range ladder {
		bandwidth, err := p.Bandwidth()
		if err != nil {
			return "", fmt.Errorf("variant %s: %w", p.Name, err)
		}
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%s,CODECS=%q\n%s\n",
			bandwidth, p.Resolution, codecTags, p.PlaylistName())
	}
	return b.String(), nil
}

// WriteMasterPlaylist 组装并写出master清单，返回其路径。
func WriteMasterPlaylist(outputDir string, ladder vo.Ladder) (string, error) {
	content, err := BuildMasterPlaylist(ladder)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, MasterPlaylistName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write master playlist: %w", err)
	}
	return path, nil
}
