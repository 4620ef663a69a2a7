package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchApi 搜索API控制器
type SearchApi struct {
	logger *zap.SugaredLogger
	users  *service.UserService
	search *service.SearchService
}

// NewSearchApi 创建搜索API控制器
func NewSearchApi(svc *service.Services, logger *zap.SugaredLogger) *SearchApi {
	return &SearchApi{logger: logger, users: svc.User, search: svc.Search}
}

// Global 全站搜索
func (api *SearchApi) Global(c *gin.Context) {
	api.run(c, nil)
}

// User 在某个用户的博客内搜索
func (api *SearchApi) User(c *gin.Context) {
	owner, ok := blogOwner(c, api.logger, api.users)
	if !ok {
		return
	}
	api.run(c, &owner.ID)
}

func (api *SearchApi) run(c *gin.Context, userID *uint) {
	var req dto.SearchRequest
	if !bindQuery(c, &req) {
		return
	}
	page, err := api.search.Search(c.Request.Context(), service.SearchQuery{
		Keyword: req.Keyword,
		Locale:  localeOf(c),
		UserID:  userID,
		Page:    req.PageOrFirst(),
	})
	if err != nil {
		handleError(c, api.logger, "搜索", err)
		return
	}
	response.SuccessPage(c, "搜索成功", dto.ToArticleListItems(page.Articles), page.Page, page.PageSize, page.Total)
}
