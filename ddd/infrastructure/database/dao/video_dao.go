package dao

import (
	"context"

	"gorm.io/gorm"

	"hls-vod-service/ddd/infrastructure/database/po"
	"hls-vod-service/internal/resource"
)

type VideoDAO struct{ db *gorm.DB }

func NewVideoDAO() *VideoDAO { return &VideoDAO{db: resource.DefaultMysqlResource().MainDB()} }

// NewVideoDAOWithDB 测试用，允许注入任意gorm连接。
func NewVideoDAOWithDB(db *gorm.DB) *VideoDAO { return &VideoDAO{db: db} }

func (d *VideoDAO) Create(ctx context.Context, video *po.Video) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Create(video).Error
}

func (d *VideoDAO) FindByVideoUUID(ctx context.Context, videoUUID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (d *VideoDAO) ListAll(ctx context.Context) ([]*po.Video, error) {
	var videos []*po.Video
	if err := d.db.WithContext(ctx).Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (d *VideoDAO) UpdateStatus(ctx context.Context, videoUUID, status string) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Where("video_uuid = ?", videoUUID).Update("status", status).Error
}

func (d *VideoDAO) UpdateError(ctx context.Context, videoUUID, msg string) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Where("video_uuid = ?", videoUUID).
		Updates(map[string]interface{}{"status": "failed", "error_message": msg}).Error
}
