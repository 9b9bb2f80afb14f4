package po

// Video 视频持久化对象。密钥和IV以十六进制存储，创建后不再更新。
type Video struct {
	BaseModel
	VideoUUID        string `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	Title            string `gorm:"column:title;type:varchar(255)" json:"title"`
	Description      string `gorm:"column:description;type:varchar(2000)" json:"description"`
	FilePath         string `gorm:"column:file_path;type:varchar(512)" json:"file_path"`
	ContentType      string `gorm:"column:content_type;type:varchar(100)" json:"content_type"`
	EncryptionKeyHex string `gorm:"column:encryption_key_hex;type:char(32)" json:"-"`
	EncryptionIVHex  string `gorm:"column:encryption_iv_hex;type:char(32)" json:"-"`
	Status           string `gorm:"column:status;type:varchar(20);index" json:"status"` // pending, processing, completed, failed
	ErrorMessage     string `gorm:"column:error_message;type:varchar(500)" json:"error_message,omitempty"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
