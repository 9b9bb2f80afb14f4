package vo

import (
	"fmt"
	"strconv"
	"strings"
)

// VariantProfile 输出梯子中的一档编码参数。
// Name同时用作变体清单文件名和切片子目录名。
type VariantProfile struct {
	Name         string `json:"name"`          // 如 "360p"
	Resolution   string `json:"resolution"`    // WxH，如 "640x360"
	VideoBitrate string `json:"video_bitrate"` // 如 "800k"
	AudioBitrate string `json:"audio_bitrate"` // 如 "128k"
}

// Validate 验证单档配置
func (p VariantProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("variant name is required")
	}
	if err := validateResolution(p.Resolution); err != nil {
		return err
	}
	if _, err := ParseBitrate(p.VideoBitrate); err != nil {
		return err
	}
	if _, err := ParseBitrate(p.AudioBitrate); err != nil {
		return err
	}
	return nil
}

// Bandwidth 估算该档总带宽（bit/s），视频码率与音频码率之和。
func (p VariantProfile) Bandwidth() (int64, error) {
	v, err := ParseBitrate(p.VideoBitrate)
	if err != nil {
		return 0, err
	}
	a, err := ParseBitrate(p.AudioBitrate)
	if err != nil {
		return 0, err
	}
	return v + a, nil
}

// PlaylistName 变体清单文件名
func (p VariantProfile) PlaylistName() string {
	return p.Name + ".m3u8"
}

// Ladder 有序的变体梯子。顺序决定编码顺序和master清单中的排列，
// 低码率在前是刻意为之：播放器通常先取首档。
type Ladder []VariantProfile

// DefaultLadder 360p/720p/1080p 三档
func DefaultLadder() Ladder {
	return Ladder{
		{Name: "360p", Resolution: "640x360", VideoBitrate: "800k", AudioBitrate: "128k"},
		{Name: "720p", Resolution: "1280x720", VideoBitrate: "2800k", AudioBitrate: "128k"},
		{Name: "1080p", Resolution: "1920x1080", VideoBitrate: "5000k", AudioBitrate: "128k"},
	}
}

// Validate 验证整个梯子，档名不允许重复。
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("ladder must contain at least one variant")
	}
	seen := make(map[string]struct{}, len(l))
	for i, p := range l {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("variant[%d]: %w", i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("variant[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ParseBitrate 解析短格式码率（"800k"→800000），k按1000计，不是1024。
func ParseBitrate(bitrate string) (int64, error) {
	s := strings.TrimSpace(strings.ToLower(bitrate))
	if s == "" {
		return 0, fmt.Errorf("bitrate is required")
	}
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		multiplier = 1000 * 1000
		s = strings.TrimSuffix(s, "m")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid bitrate %q", bitrate)
	}
	return n * multiplier, nil
}

// 验证 WxH 分辨率格式
func validateResolution(resolution string) error {
	parts := strings.Split(resolution, "x")
	if len(parts) != 2 {
		return fmt.Errorf("invalid resolution %q, want WxH", resolution)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid resolution %q, want WxH", resolution)
		}
	}
	return nil
}
