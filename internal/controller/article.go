package controller

import (
	"net/http"
	"net/url"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArticleApi 文章API控制器
type ArticleApi struct {
	logger   *zap.SugaredLogger
	users    *service.UserService
	articles *service.ArticleService
	query    *service.ArticleQuery
	comments *service.CommentService
}

// NewArticleApi 创建文章API控制器
func NewArticleApi(svc *service.Services, logger *zap.SugaredLogger) *ArticleApi {
	return &ArticleApi{
		logger:   logger,
		users:    svc.User,
		articles: svc.Article,
		query:    svc.Query,
		comments: svc.Comment,
	}
}

// PublicList 公开文章列表，可按分类或标签筛选
func (api *ArticleApi) PublicList(c *gin.Context) {
	var req dto.ArticleListQuery
	if !bindQuery(c, &req) {
		return
	}
	owner, ok := blogOwner(c, api.logger, api.users)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	locale := localeOf(c)

	page, err := api.query.List(ctx, service.ArticleFilter{
		UserID:     owner.ID,
		Locale:     locale,
		CategoryID: req.CategoryID,
		TagID:      req.TagID,
		Page:       req.PageOrFirst(),
	})
	if err != nil {
		handleError(c, api.logger, "获取文章列表", err)
		return
	}
	category, err := api.query.CurrentCategory(ctx, owner.ID, locale, req.CategoryID)
	if err != nil {
		handleError(c, api.logger, "获取文章列表", err)
		return
	}
	tag, err := api.query.CurrentTag(ctx, owner.ID, req.TagID)
	if err != nil {
		handleError(c, api.logger, "获取文章列表", err)
		return
	}

	resp := dto.ArticleListResponse{
		List:            dto.ToArticleListItems(page.Articles),
		Total:           page.Total,
		Page:            page.Page,
		PageSize:        page.PageSize,
		CurrentCategory: dto.ToCategoryInfo(category),
	}
	if tag != nil {
		resp.CurrentTag = &dto.TagInfo{ID: tag.ID, Name: tag.Name}
	}
	response.Success(c, "获取成功", resp)
}

// PublicDetail 公开文章详情，包含渲染后的正文和评论
func (api *ArticleApi) PublicDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	owner, ok := blogOwner(c, api.logger, api.users)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	locale := localeOf(c)

	article, err := api.articles.GetPublic(ctx, owner.ID, locale, id)
	if err != nil {
		handleError(c, api.logger, "获取文章", err)
		return
	}
	html, err := api.articles.RenderHTML(ctx, article)
	if err != nil {
		handleError(c, api.logger, "渲染文章", err)
		return
	}
	comments, err := api.comments.ListForArticle(ctx, article.ID)
	if err != nil {
		handleError(c, api.logger, "获取评论", err)
		return
	}

	detail := dto.ToArticleDetail(article, html, locale)
	detail.Comments = dto.ToCommentItems(comments)
	response.Success(c, "获取成功", detail)
}

// List 当前用户的文章列表
func (api *ArticleApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pageNum, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := api.articles.ListDashboard(c.Request.Context(), userID, pageNum)
	if err != nil {
		handleError(c, api.logger, "获取文章列表", err)
		return
	}
	response.SuccessPage(c, "获取成功", dto.ToArticleListItems(page.Articles), page.Page, page.PageSize, page.Total)
}

// Get 当前用户的文章详情
func (api *ArticleApi) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	article, err := api.articles.GetOwned(ctx, userID, id)
	if err != nil {
		handleError(c, api.logger, "获取文章", err)
		return
	}
	html, err := api.articles.RenderHTML(ctx, article)
	if err != nil {
		api.logger.Warnf("渲染文章失败: %v", err)
	}
	response.Success(c, "获取成功", dto.ToArticleDetail(article, html, article.Locale))
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.articles.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, api.logger, "创建文章", err)
		return
	}
	response.Created(c, "创建成功", dto.ToArticleListItem(article))
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.articles.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleError(c, api.logger, "更新文章", err)
		return
	}
	response.Success(c, "更新成功", dto.ToArticleListItem(article))
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := api.articles.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, api.logger, "删除文章", err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Export 导出Markdown文件
func (api *ArticleApi) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	filename, data, err := api.articles.Export(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, api.logger, "导出文章", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

// Preview 渲染Markdown预览
func (api *ArticleApi) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bindJSON(c, &req) {
		return
	}
	html, err := api.articles.Preview(req.Content)
	if err != nil {
		handleError(c, api.logger, "预览", err)
		return
	}
	response.Success(c, "渲染成功", gin.H{"html": html})
}
