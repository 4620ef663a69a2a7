package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactApi 联系表单控制器
type ContactApi struct {
	logger   *zap.SugaredLogger
	contacts *service.ContactService
}

// NewContactApi 创建联系表单控制器
func NewContactApi(svc *service.Services, logger *zap.SugaredLogger) *ContactApi {
	return &ContactApi{logger: logger, contacts: svc.Contact}
}

// Captcha 生成验证码
func (api *ContactApi) Captcha(c *gin.Context) {
	captcha, err := api.contacts.NewCaptcha()
	if err != nil {
		handleError(c, api.logger, "生成验证码", err)
		return
	}
	response.Success(c, "获取成功", captcha)
}

// Submit 提交联系表单
func (api *ContactApi) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := api.contacts.Submit(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "提交联系表单", err)
		return
	}
	response.Created(c, "提交成功", gin.H{"id": contact.ID})
}
