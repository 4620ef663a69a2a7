package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryApi 分类API控制器
type CategoryApi struct {
	logger          *zap.SugaredLogger
	categoryService *service.CategoryService
}

// NewCategoryApi 创建分类API控制器
func NewCategoryApi(svc *service.Services, logger *zap.SugaredLogger) *CategoryApi {
	return &CategoryApi{
		logger:          logger,
		categoryService: svc.Category,
	}
}

// List 分类列表，可按语言筛选
func (api *CategoryApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CategoryListQuery
	if !bindQuery(c, &req) {
		return
	}
	list, err := api.categoryService.List(c.Request.Context(), userID, req.Locale)
	if err != nil {
		handleError(c, api.logger, "获取分类列表", err)
		return
	}
	response.Success(c, "获取成功", dto.ToCategoryResponses(list))
}

// Get 获取分类
func (api *CategoryApi) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := api.categoryService.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, api.logger, "获取分类", err)
		return
	}
	response.Success(c, "获取成功", dto.ToCategoryResponse(category))
}

// Create 创建分类
func (api *CategoryApi) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := api.categoryService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, api.logger, "创建分类", err)
		return
	}
	response.Created(c, "创建成功", dto.ToCategoryResponse(category))
}

// Update 更新分类
func (api *CategoryApi) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := api.categoryService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleError(c, api.logger, "更新分类", err)
		return
	}
	response.Success(c, "更新成功", dto.ToCategoryResponse(category))
}

// Delete 删除分类，文章保留
func (api *CategoryApi) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := api.categoryService.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, api.logger, "删除分类", err)
		return
	}
	response.Success(c, "删除成功", nil)
}
