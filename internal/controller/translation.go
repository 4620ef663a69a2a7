package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TranslationApi 译文API控制器，路由中的 id 为原文ID
type TranslationApi struct {
	logger       *zap.SugaredLogger
	translations *service.TranslationService
}

// NewTranslationApi 创建译文API控制器
func NewTranslationApi(svc *service.Services, logger *zap.SugaredLogger) *TranslationApi {
	return &TranslationApi{logger: logger, translations: svc.Translation}
}

// owner 当前用户和原文ID
func (api *TranslationApi) owner(c *gin.Context) (uint, uint, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	originalID, ok := parseID(c, "id")
	if !ok {
		return 0, 0, false
	}
	return userID, originalID, true
}

// New 新建译文表单的预填内容
func (api *TranslationApi) New(c *gin.Context) {
	userID, originalID, ok := api.owner(c)
	if !ok {
		return
	}
	draft, err := api.translations.Draft(c.Request.Context(), userID, originalID)
	if err != nil {
		handleError(c, api.logger, "获取译文模板", err)
		return
	}
	response.Success(c, "获取成功", draft)
}

// Get 获取译文
func (api *TranslationApi) Get(c *gin.Context) {
	userID, originalID, ok := api.owner(c)
	if !ok {
		return
	}
	article, err := api.translations.Get(c.Request.Context(), userID, originalID)
	if err != nil {
		handleError(c, api.logger, "获取译文", err)
		return
	}
	response.Success(c, "获取成功", dto.ToArticleDetail(article, "", article.Locale))
}

// Create 创建译文
func (api *TranslationApi) Create(c *gin.Context) {
	userID, originalID, ok := api.owner(c)
	if !ok {
		return
	}
	var req dto.TranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.translations.Create(c.Request.Context(), userID, originalID, &req)
	if err != nil {
		handleError(c, api.logger, "创建译文", err)
		return
	}
	response.Created(c, "创建成功", dto.ToArticleListItem(article))
}

// Update 更新译文
func (api *TranslationApi) Update(c *gin.Context) {
	userID, originalID, ok := api.owner(c)
	if !ok {
		return
	}
	var req dto.TranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.translations.Update(c.Request.Context(), userID, originalID, &req)
	if err != nil {
		handleError(c, api.logger, "更新译文", err)
		return
	}
	response.Success(c, "更新成功", dto.ToArticleListItem(article))
}

// Delete 删除译文，原文保留
func (api *TranslationApi) Delete(c *gin.Context) {
	userID, originalID, ok := api.owner(c)
	if !ok {
		return
	}
	if err := api.translations.Delete(c.Request.Context(), userID, originalID); err != nil {
		handleError(c, api.logger, "删除译文", err)
		return
	}
	response.Success(c, "删除成功", nil)
}
