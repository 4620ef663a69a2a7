package dto

import (
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/auth"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 用户登录请求
type LoginRequest struct {
	Login    string `json:"login" binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProfileUpdateRequest 个人资料更新请求
type ProfileUpdateRequest struct {
	NicknameJa     string `json:"nickname_ja" binding:"max=50"`
	NicknameEn     string `json:"nickname_en" binding:"max=50"`
	BioJa          string `json:"bio_ja" binding:"max=1000"`
	BioEn          string `json:"bio_en" binding:"max=1000"`
	LocationJa     string `json:"location_ja" binding:"max=100"`
	LocationEn     string `json:"location_en" binding:"max=100"`
	Website        string `json:"website" binding:"omitempty,max=255,httpurl"`
	Avatar         string `json:"avatar" binding:"max=255"`
	TwitterHandle  string `json:"twitter_handle" binding:"max=50"`
	FacebookHandle string `json:"facebook_handle" binding:"max=50"`
	LinkedinHandle string `json:"linkedin_handle" binding:"max=50"`
	GithubHandle   string `json:"github_handle" binding:"max=50"`
	QiitaHandle    string `json:"qiita_handle" binding:"max=50"`
	ZennHandle     string `json:"zenn_handle" binding:"max=50"`
	HatenaHandle   string `json:"hatena_handle" binding:"max=50"`
}

// AuthResponse 登录/注册结果
type AuthResponse struct {
	User   *model.User     `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// SocialLinks 社交账号
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Github   string `json:"github,omitempty"`
	Qiita    string `json:"qiita,omitempty"`
	Zenn     string `json:"zenn,omitempty"`
	Hatena   string `json:"hatena,omitempty"`
}

// PublicProfile 公开资料，字段按语言取值
type PublicProfile struct {
	Username    string              `json:"username"`
	DisplayName string              `json:"display_name"`
	Bio         string              `json:"bio"`
	Location    string              `json:"location"`
	Website     string              `json:"website"`
	Avatar      string              `json:"avatar"`
	Social      SocialLinks         `json:"social"`
	Blog        BlogSettingResponse `json:"blog"`
}

// ToPublicProfile 转换公开资料
func ToPublicProfile(u *model.User, s *model.BlogSetting, locale string) *PublicProfile {
	return &PublicProfile{
		Username:    u.Username,
		DisplayName: u.DisplayName(locale),
		Bio:         u.LocalizedBio(locale),
		Location:    u.LocalizedLocation(locale),
		Website:     u.Website,
		Avatar:      u.Avatar,
		Social: SocialLinks{
			Twitter:  u.TwitterHandle,
			Facebook: u.FacebookHandle,
			Linkedin: u.LinkedinHandle,
			Github:   u.GithubHandle,
			Qiita:    u.QiitaHandle,
			Zenn:     u.ZennHandle,
			Hatena:   u.HatenaHandle,
		},
		Blog: ToBlogSettingResponse(s, locale),
	}
}

// BlogSettingRequest 博客外观设置请求
type BlogSettingRequest struct {
	BlogTitleJa       string `json:"blog_title_ja" binding:"max=100"`
	BlogTitleEn       string `json:"blog_title_en" binding:"max=100"`
	BlogSubtitleJa    string `json:"blog_subtitle_ja" binding:"max=255"`
	BlogSubtitleEn    string `json:"blog_subtitle_en" binding:"max=255"`
	ThemeColor        string `json:"theme_color" binding:"required,oneof=default slate forest maroon midnight"`
	LayoutStyle       string `json:"layout_style" binding:"required,oneof=linear hero_tiles hero_list"`
	ShowHeroThumbnail bool   `json:"show_hero_thumbnail"`
	HeaderImage       string `json:"header_image" binding:"max=255"`
}

// BlogSettingResponse 博客外观设置
type BlogSettingResponse struct {
	*model.BlogSetting
	DisplayTitle    string `json:"display_title"`
	DisplaySubtitle string `json:"display_subtitle"`
}

// ToBlogSettingResponse 转换设置
func ToBlogSettingResponse(s *model.BlogSetting, locale string) BlogSettingResponse {
	return BlogSettingResponse{
		BlogSetting:     s,
		DisplayTitle:    s.DisplayTitle(locale),
		DisplaySubtitle: s.DisplaySubtitle(locale),
	}
}

// AnalyticsStatus 统计开通状态
type AnalyticsStatus struct {
	Enabled        bool   `json:"enabled"`
	SetupCompleted bool   `json:"setup_completed"`
	ShareURL       string `json:"share_url,omitempty"`
}
