package model

// Image 上传图片记录
type Image struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Key          string `gorm:"type:varchar(255);not null" json:"key"`
	URL          string `gorm:"type:varchar(512);not null" json:"url"`
	VariantURL   string `gorm:"type:varchar(512)" json:"variant_url"`
	ThumbnailURL string `gorm:"type:varchar(512)" json:"thumbnail_url"`
	Filename     string `gorm:"type:varchar(255)" json:"filename"`
	MimeType     string `gorm:"type:varchar(50);not null" json:"mime_type"`
	Size         int64  `gorm:"not null" json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	StorageType  string `gorm:"type:varchar(20);not null;default:'local'" json:"storage_type"`
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}
