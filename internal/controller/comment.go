package controller

import (
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentApi 评论API控制器
type CommentApi struct {
	logger         *zap.SugaredLogger
	users          *service.UserService
	commentService *service.CommentService
}

// NewCommentApi 创建评论API控制器
func NewCommentApi(svc *service.Services, logger *zap.SugaredLogger) *CommentApi {
	return &CommentApi{logger: logger, users: svc.User, commentService: svc.Comment}
}

// Create 读者在公开文章下发表评论
func (api *CommentApi) Create(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	owner, ok := blogOwner(c, api.logger, api.users)
	if !ok {
		return
	}
	comment, err := api.commentService.Create(c.Request.Context(), owner.ID, localeOf(c), articleID, &req)
	if err != nil {
		handleError(c, api.logger, "发表评论", err)
		return
	}
	response.Created(c, "评论成功", dto.ToCommentItem(comment))
}

// List 自己文章下的评论
func (api *CommentApi) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, total, page, err := api.commentService.ListForOwner(c.Request.Context(), userID, page)
	if err != nil {
		handleError(c, api.logger, "获取评论列表", err)
		return
	}
	response.SuccessPage(c, "获取成功", dto.ToCommentItems(list), page, service.DashboardPageSize, total)
}

// Get 评论详情
func (api *CommentApi) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comment, err := api.commentService.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, api.logger, "获取评论", err)
		return
	}
	response.Success(c, "获取成功", dto.ToCommentItem(comment))
}

// Delete 删除评论
func (api *CommentApi) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := api.commentService.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, api.logger, "删除评论", err)
		return
	}
	response.Success(c, "删除成功", nil)
}
