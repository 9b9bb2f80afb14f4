package convertor

import (
	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/ddd/infrastructure/database/po"
)

type VideoConvertor struct{}

func NewVideoConvertor() *VideoConvertor { return &VideoConvertor{} }

func (c *VideoConvertor) ToEntity(poVideo *po.Video) *entity.VideoEntity {
	if poVideo == nil {
		return nil
	}
	return entity.NewVideoEntityWithDetails(
		poVideo.Id,
		poVideo.VideoUUID,
		poVideo.Title,
		poVideo.Description,
		poVideo.FilePath,
		poVideo.ContentType,
		poVideo.EncryptionKeyHex,
		poVideo.EncryptionIVHex,
		vo.VideoStatus(poVideo.Status),
		poVideo.ErrorMessage,
		poVideo.CreatedAt,
		poVideo.UpdatedAt,
	)
}

func (c *VideoConvertor) ToPO(e *entity.VideoEntity) *po.Video {
	if e == nil {
		return nil
	}
	return &po.Video{
		BaseModel:        po.BaseModel{Id: e.ID(), CreatedAt: e.CreatedAt(), UpdatedAt: e.UpdatedAt()},
		VideoUUID:        e.VideoUUID(),
		Title:            e.Title(),
		Description:      e.Description(),
		FilePath:         e.FilePath(),
		ContentType:      e.ContentType(),
		EncryptionKeyHex: e.KeyHex(),
		EncryptionIVHex:  e.IVHex(),
		Status:           e.Status().String(),
		ErrorMessage:     e.ErrorMessage(),
	}
}
