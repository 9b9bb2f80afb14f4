package dto

import (
	"fmt"
	"time"

	"hls-vod-service/ddd/domain/entity"
)

// VideoDTO 对外返回的视频信息。不包含密钥和IV。
type VideoDTO struct {
	VideoUUID    string    `json:"video_uuid"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ContentType  string    `json:"content_type"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	MasterURL    string    `json:"master_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromEntity 由实体构造DTO。completed状态才给出master地址。
func FromEntity(e *entity.VideoEntity, publicBaseURL string) *VideoDTO {
	d := &VideoDTO{
		VideoUUID:    e.VideoUUID(),
		Title:        e.Title(),
		Description:  e.Description(),
		ContentType:  e.ContentType(),
		Status:       e.Status().String(),
		ErrorMessage: e.ErrorMessage(),
		CreatedAt:    e.CreatedAt(),
	}
	if d.Status == "completed" {
		d.MasterURL = fmt.Sprintf("%s/api/v1/videos/%s/master.m3u8", publicBaseURL, e.VideoUUID())
	}
	return d
}
