package model

// Tag 标签模型，名称小写，同一用户下唯一
type Tag struct {
	Base
	Name   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_user_name,priority:2" json:"name"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_tags_user_name,priority:1" json:"user_id"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// ArticleTag 文章-标签关联模型
type ArticleTag struct {
	ArticleID uint `gorm:"primaryKey" json:"article_id"`
	TagID     uint `gorm:"primaryKey" json:"tag_id"`
}

// TableName 指定表名
func (ArticleTag) TableName() string {
	return "article_tags"
}
