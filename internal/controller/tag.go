package controller

import (
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TagApi 标签API控制器
type TagApi struct {
	logger     *zap.SugaredLogger
	tagService *service.TagService
}

// NewTagApi 创建标签API控制器
func NewTagApi(svc *service.Services, logger *zap.SugaredLogger) *TagApi {
	return &TagApi{logger: logger, tagService: svc.Tag}
}

// List 当前用户的标签及文章数
func (api *TagApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tags, err := api.tagService.ListUserTags(c.Request.Context(), userID)
	if err != nil {
		handleError(c, api.logger, "获取标签列表", err)
		return
	}
	response.Success(c, "获取成功", tags)
}

// Delete 删除标签
func (api *TagApi) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := api.tagService.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, api.logger, "删除标签", err)
		return
	}
	response.Success(c, "删除成功", nil)
}
