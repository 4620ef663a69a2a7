package model

// Contact 联系表单提交
type Contact struct {
	Base
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null" json:"email"`
	Subject  string `gorm:"type:varchar(255);not null" json:"subject"`
	Message  string `gorm:"type:text;not null" json:"message"`
	Resolved bool   `gorm:"not null;default:false;index" json:"resolved"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}
