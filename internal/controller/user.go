package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/middleware"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserApi 用户API控制器
type UserApi struct {
	logger      *zap.SugaredLogger
	userService *service.UserService
	settings    *service.BlogSettingService
	analytics   *service.AnalyticsService
}

// NewUserApi 创建用户API控制器
func NewUserApi(svc *service.Services, logger *zap.SugaredLogger) *UserApi {
	return &UserApi{
		logger:      logger,
		userService: svc.User,
		settings:    svc.BlogSetting,
		analytics:   svc.Analytics,
	}
}

// Register 用户注册
func (api *UserApi) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := api.userService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "注册", err)
		return
	}
	response.Created(c, "注册成功", dto.AuthResponse{User: user, Tokens: tokens})
}

// Login 用户登录
func (api *UserApi) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := api.userService.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "登录", err)
		return
	}
	response.Success(c, "登录成功", dto.AuthResponse{User: user, Tokens: tokens})
}

// RefreshToken 刷新令牌
func (api *UserApi) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := api.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		handleError(c, api.logger, "刷新令牌", err)
		return
	}
	response.Success(c, "刷新成功", tokens)
}

// Logout 登出，访问令牌和刷新令牌同时作废
func (api *UserApi) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if err := api.userService.Logout(middleware.GetAccessToken(c), req.RefreshToken); err != nil {
		handleError(c, api.logger, "登出", err)
		return
	}
	response.Success(c, "登出成功", nil)
}

// Me 当前用户信息
func (api *UserApi) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := api.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "获取用户信息", err)
		return
	}
	response.Success(c, "获取成功", user)
}

// UpdateProfile 更新个人资料
func (api *UserApi) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := api.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, api.logger, "更新个人资料", err)
		return
	}
	response.Success(c, "更新成功", user)
}

// PublicProfile 公开资料和博客外观
func (api *UserApi) PublicProfile(c *gin.Context) {
	owner, ok := blogOwner(c, api.logger, api.userService)
	if !ok {
		return
	}
	setting, err := api.settings.GetOrCreate(c.Request.Context(), owner.ID)
	if err != nil {
		handleError(c, api.logger, "获取博客设置", err)
		return
	}
	response.Success(c, "获取成功", dto.ToPublicProfile(owner, setting, localeOf(c)))
}

// GetBlogSetting 当前用户的博客外观设置
func (api *UserApi) GetBlogSetting(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	setting, err := api.settings.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "获取博客设置", err)
		return
	}
	response.Success(c, "获取成功", dto.ToBlogSettingResponse(setting, queryLocale(c)))
}

// UpdateBlogSetting 更新博客外观设置
func (api *UserApi) UpdateBlogSetting(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.BlogSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	setting, err := api.settings.Update(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, api.logger, "更新博客设置", err)
		return
	}
	response.Success(c, "更新成功", dto.ToBlogSettingResponse(setting, queryLocale(c)))
}

// Analytics 访问统计开通状态
func (api *UserApi) Analytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status, err := api.analytics.Status(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "获取统计状态", err)
		return
	}
	response.Success(c, "获取成功", status)
}

// queryLocale 查询参数中的语言，非法时使用默认语言
func queryLocale(c *gin.Context) string {
	if locale := c.Query("locale"); model.ValidLocale(locale) {
		return locale
	}
	return model.DefaultLocale
}
