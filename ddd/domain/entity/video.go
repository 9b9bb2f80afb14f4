package entity

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"hls-vod-service/ddd/domain/vo"
)

// VideoEntity 视频实体。加密密钥和IV在创建时生成一次，之后不再轮换：
// 已下发的清单中固化了密钥URL和IV，轮换会使其全部失效。
type VideoEntity struct {
	id           uint64 // 数据库主键ID
	videoUUID    string
	title        string
	description  string
	filePath     string
	contentType  string
	keyHex       string
	ivHex        string
	status       vo.VideoStatus
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewVideoEntity 创建视频实体，密钥与IV以十六进制传入。
func NewVideoEntity(title, description, filePath, contentType string, keyBytes, ivBytes []byte) *VideoEntity {
	now := time.Now()
	return &VideoEntity{
		videoUUID:   uuid.NewString(),
		title:       title,
		description: description,
		filePath:    filePath,
		contentType: contentType,
		keyHex:      hex.EncodeToString(keyBytes),
		ivHex:       hex.EncodeToString(ivBytes),
		status:      vo.VideoStatusPending,
		createdAt:   now,
		updatedAt:   now,
	}
}

// NewVideoEntityWithDetails 从持久化数据还原视频实体
func NewVideoEntityWithDetails(
	id uint64,
	videoUUID, title, description, filePath, contentType, keyHex, ivHex string,
	status vo.VideoStatus, errorMessage string,
	createdAt, updatedAt time.Time,
) *VideoEntity {
	return &VideoEntity{
		id:           id,
		videoUUID:    videoUUID,
		title:        title,
		description:  description,
		filePath:     filePath,
		contentType:  contentType,
		keyHex:       keyHex,
		ivHex:        ivHex,
		status:       status,
		errorMessage: errorMessage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (v *VideoEntity) ID() uint64           { return v.id }
func (v *VideoEntity) VideoUUID() string    { return v.videoUUID }
func (v *VideoEntity) Title() string        { return v.title }
func (v *VideoEntity) Description() string  { return v.description }
func (v *VideoEntity) FilePath() string     { return v.filePath }
func (v *VideoEntity) ContentType() string  { return v.contentType }
func (v *VideoEntity) KeyHex() string       { return v.keyHex }
func (v *VideoEntity) IVHex() string        { return v.ivHex }
func (v *VideoEntity) Status() vo.VideoStatus { return v.status }
func (v *VideoEntity) ErrorMessage() string { return v.errorMessage }
func (v *VideoEntity) CreatedAt() time.Time { return v.createdAt }
func (v *VideoEntity) UpdatedAt() time.Time { return v.updatedAt }

// KeyBytes 解码十六进制密钥，未设置或非法时返回错误。
func (v *VideoEntity) KeyBytes() ([]byte, error) {
	return hex.DecodeString(v.keyHex)
}

// SetStatus 更新处理状态
func (v *VideoEntity) SetStatus(status vo.VideoStatus) {
	v.status = status
	v.updatedAt = time.Now()
}

// SetError 记录失败信息并置为失败状态
func (v *VideoEntity) SetError(msg string) {
	v.errorMessage = msg
	v.status = vo.VideoStatusFailed
	v.updatedAt = time.Now()
}
