package controller

import (
	"errors"
	"strconv"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/middleware"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/dualpascal/blog-api/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// getUserIDFromContext 从上下文中获取用户ID
func getUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return 0, errors.New("用户未登录")
	}
	return userID, nil
}

// currentUserID 获取当前用户ID，未登录时直接返回401
func currentUserID(c *gin.Context) (uint, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error(), nil)
		return 0, false
	}
	return userID, true
}

// parseID 解析路径中的ID参数，非法ID按不存在处理
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.NotFound(c, "资源不存在", err)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，校验失败返回422，格式错误返回400
func bindJSON(c *gin.Context, req any) bool {
	return bindResult(c, c.ShouldBindJSON(req))
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, req any) bool {
	return bindResult(c, c.ShouldBindQuery(req))
}

func bindResult(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		response.ValidationFailed(c, "参数校验失败", validate.Fields(err))
		return false
	}
	response.BadRequest(c, "参数错误", err)
	return false
}

// handleError 将服务层错误转换为HTTP响应
func handleError(c *gin.Context, log *zap.SugaredLogger, action string, err error) {
	if ve, ok := service.IsValidation(err); ok {
		response.ValidationFailed(c, "参数校验失败", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "资源不存在", err)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error(), err)
	case errors.Is(err, service.ErrTranslationExists):
		response.Conflict(c, err.Error(), err)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrWrongTokenType):
		response.Unauthorized(c, err.Error(), err)
	case errors.Is(err, service.ErrAccountSuspended):
		response.Forbidden(c, err.Error(), err)
	case errors.Is(err, service.ErrPreviewFailed), errors.Is(err, service.ErrCaptcha):
		response.ValidationFailed(c, err.Error(), nil)
	default:
		log.Errorf("%s失败: %v", action, err)
		response.InternalServerError(c, action+"失败", err)
	}
}

// blogOwner 按路径中的用户名查找博客所有者
func blogOwner(c *gin.Context, log *zap.SugaredLogger, users *service.UserService) (*model.User, bool) {
	user, err := users.FindPublic(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, log, "查询用户", err)
		return nil, false
	}
	return user, true
}

// pageQuery 读取页码参数
func pageQuery(c *gin.Context) (int, bool) {
	var q dto.PageRequest
	if !bindQuery(c, &q) {
		return 0, false
	}
	return q.PageOrFirst(), true
}

// localeOf 当前请求语言
func localeOf(c *gin.Context) string {
	return middleware.GetLocale(c)
}
