package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminApi 管理后台API控制器
type AdminApi struct {
	logger   *zap.SugaredLogger
	admin    *service.AdminService
	contacts *service.ContactService
}

// NewAdminApi 创建管理后台API控制器
func NewAdminApi(svc *service.Services, logger *zap.SugaredLogger) *AdminApi {
	return &AdminApi{logger: logger, admin: svc.Admin, contacts: svc.Contact}
}

// Dashboard 后台统计
func (api *AdminApi) Dashboard(c *gin.Context) {
	stats, err := api.admin.Stats(c.Request.Context())
	if err != nil {
		handleError(c, api.logger, "获取统计", err)
		return
	}
	response.Success(c, "获取成功", stats)
}

// ListUsers 用户列表，支持按用户名或邮箱搜索
func (api *AdminApi) ListUsers(c *gin.Context) {
	var req dto.AdminUserListQuery
	if !bindQuery(c, &req) {
		return
	}
	list, total, page, err := api.admin.ListUsers(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "获取用户列表", err)
		return
	}
	response.SuccessPage(c, "获取成功", list, page, service.DashboardPageSize, total)
}

// GetUser 用户详情
func (api *AdminApi) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := api.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "获取用户", err)
		return
	}
	response.Success(c, "获取成功", detail)
}

// UpdateUserStatus 停用或恢复用户
func (api *AdminApi) UpdateUserStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UserStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := api.admin.UpdateUserStatus(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, api.logger, "更新用户状态", err)
		return
	}
	response.Success(c, "更新成功", user)
}

// ListArticles 全部文章
func (api *AdminApi) ListArticles(c *gin.Context) {
	pageNum, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := api.admin.ListArticles(c.Request.Context(), pageNum)
	if err != nil {
		handleError(c, api.logger, "获取文章列表", err)
		return
	}
	response.SuccessPage(c, "获取成功", dto.ToArticleListItems(page.Articles), page.Page, page.PageSize, page.Total)
}

// DeleteArticle 删除任意文章
func (api *AdminApi) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := api.admin.DeleteArticle(c.Request.Context(), id); err != nil {
		handleError(c, api.logger, "删除文章", err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// ListContacts 联系记录列表
func (api *AdminApi) ListContacts(c *gin.Context) {
	var req dto.ContactListQuery
	if !bindQuery(c, &req) {
		return
	}
	list, total, page, err := api.contacts.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, api.logger, "获取联系记录", err)
		return
	}
	response.SuccessPage(c, "获取成功", dto.ToContactResponses(list), page, service.DashboardPageSize, total)
}

// GetContact 联系记录详情
func (api *AdminApi) GetContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contact, err := api.contacts.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, api.logger, "获取联系记录", err)
		return
	}
	response.Success(c, "获取成功", dto.ToContactResponse(contact))
}

// ResolveContact 标记联系记录处理状态
func (api *AdminApi) ResolveContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ContactResolveRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := api.contacts.SetResolved(c.Request.Context(), id, req.Resolved)
	if err != nil {
		handleError(c, api.logger, "更新联系记录", err)
		return
	}
	response.Success(c, "更新成功", dto.ToContactResponse(contact))
}
