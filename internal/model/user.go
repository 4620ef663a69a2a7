package model

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusPending   = "pending"
)

// User 用户模型
type User struct {
	Base
	Username string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status   string `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Avatar   string `gorm:"type:varchar(255)" json:"avatar"`
	Website  string `gorm:"type:varchar(255)" json:"website"`

	NicknameJa string `gorm:"type:varchar(50)" json:"nickname_ja"`
	NicknameEn string `gorm:"type:varchar(50)" json:"nickname_en"`
	BioJa      string `gorm:"type:text" json:"bio_ja"`
	BioEn      string `gorm:"type:text" json:"bio_en"`
	LocationJa string `gorm:"type:varchar(100)" json:"location_ja"`
	LocationEn string `gorm:"type:varchar(100)" json:"location_en"`

	TwitterHandle  string `gorm:"type:varchar(50)" json:"twitter_handle"`
	FacebookHandle string `gorm:"type:varchar(50)" json:"facebook_handle"`
	LinkedinHandle string `gorm:"type:varchar(50)" json:"linkedin_handle"`
	GithubHandle   string `gorm:"type:varchar(50)" json:"github_handle"`
	QiitaHandle    string `gorm:"type:varchar(50)" json:"qiita_handle"`
	ZennHandle     string `gorm:"type:varchar(50)" json:"zenn_handle"`
	HatenaHandle   string `gorm:"type:varchar(50)" json:"hatena_handle"`

	// Umami 统计
	UmamiWebsiteID          string `gorm:"type:varchar(64)" json:"-"`
	UmamiShareURL           string `gorm:"type:varchar(255)" json:"-"`
	AnalyticsSetupCompleted bool   `gorm:"not null;default:false" json:"analytics_setup_completed"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSuspended 是否已停用
func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// DisplayName 展示名称，昵称缺失时回退到另一语言，再回退到用户名
func (u *User) DisplayName(locale string) string {
	return pickLocalized(locale, u.NicknameJa, u.NicknameEn, u.Username)
}

// LocalizedBio 按语言取简介
func (u *User) LocalizedBio(locale string) string {
	return pickLocalized(locale, u.BioJa, u.BioEn, "")
}

// LocalizedLocation 按语言取所在地
func (u *User) LocalizedLocation(locale string) string {
	return pickLocalized(locale, u.LocationJa, u.LocationEn, "")
}

// HasAnalytics 统计是否已开通
func (u *User) HasAnalytics() bool {
	return u.AnalyticsSetupCompleted && u.UmamiShareURL != ""
}
