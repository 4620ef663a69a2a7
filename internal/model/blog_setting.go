package model

// 主题色
const (
	ThemeDefault  = "default"
	ThemeSlate    = "slate"
	ThemeForest   = "forest"
	ThemeMaroon   = "maroon"
	ThemeMidnight = "midnight"
)

// 布局
const (
	LayoutLinear    = "linear"
	LayoutHeroTiles = "hero_tiles"
	LayoutHeroList  = "hero_list"
)

// DefaultBlogTitle 未设置标题时的展示名
const DefaultBlogTitle = "Dual Pascal"

// ThemeColors 可选主题色
var ThemeColors = []string{ThemeDefault, ThemeSlate, ThemeForest, ThemeMaroon, ThemeMidnight}

// LayoutStyles 可选布局
var LayoutStyles = []string{LayoutLinear, LayoutHeroTiles, LayoutHeroList}

// BlogSetting 博客外观设置，每个用户一条
type BlogSetting struct {
	Base
	UserID            uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	BlogTitleJa       string `gorm:"type:varchar(100)" json:"blog_title_ja"`
	BlogTitleEn       string `gorm:"type:varchar(100)" json:"blog_title_en"`
	BlogSubtitleJa    string `gorm:"type:varchar(255)" json:"blog_subtitle_ja"`
	BlogSubtitleEn    string `gorm:"type:varchar(255)" json:"blog_subtitle_en"`
	ThemeColor        string `gorm:"type:varchar(20);not null;default:'slate'" json:"theme_color"`
	LayoutStyle       string `gorm:"type:varchar(20);not null;default:'linear'" json:"layout_style"`
	ShowHeroThumbnail bool   `gorm:"not null;default:false" json:"show_hero_thumbnail"`
	HeaderImage       string `gorm:"type:varchar(255)" json:"header_image"`
}

// TableName 指定表名
func (BlogSetting) TableName() string {
	return "blog_settings"
}

// DisplayTitle 展示标题
func (s *BlogSetting) DisplayTitle(locale string) string {
	return pickLocalized(locale, s.BlogTitleJa, s.BlogTitleEn, DefaultBlogTitle)
}

// DisplaySubtitle 展示副标题
func (s *BlogSetting) DisplaySubtitle(locale string) string {
	return pickLocalized(locale, s.BlogSubtitleJa, s.BlogSubtitleEn, "")
}

// ValidThemeColor 主题色是否合法
func ValidThemeColor(v string) bool {
	return contains(ThemeColors, v)
}

// ValidLayoutStyle 布局是否合法
func ValidLayoutStyle(v string) bool {
	return contains(LayoutStyles, v)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
