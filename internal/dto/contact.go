package dto

import "github.com/dualpascal/blog-api/internal/model"

// ContactRequest 联系表单
type ContactRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Subject       string `json:"subject" binding:"required,max=255"`
	Message       string `json:"message" binding:"required,max=5000"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// ContactListQuery 后台联系列表参数
type ContactListQuery struct {
	PageRequest
	Resolved *bool `form:"resolved"`
}

// ContactResolveRequest 标记处理状态
type ContactResolveRequest struct {
	Resolved bool `json:"resolved"`
}

// CaptchaResponse 验证码
type CaptchaResponse struct {
	CaptchaID string `json:"captcha_id"`
	Image     string `json:"image"`
}

// ContactResponse 联系记录
type ContactResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Resolved  bool   `json:"resolved"`
	CreatedAt string `json:"created_at"`
}

// ToContactResponse 转换联系记录
func ToContactResponse(c *model.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		Resolved:  c.Resolved,
		CreatedAt: FormatTime(c.CreatedAt),
	}
}

// ToContactResponses 批量转换
func ToContactResponses(list []model.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(list))
	for i := range list {
		out = append(out, ToContactResponse(&list[i]))
	}
	return out
}
