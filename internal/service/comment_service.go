package service

import (
	"context"
	"strings"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService 评论服务
type CommentService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewCommentService 创建评论服务实例
func NewCommentService(db *gorm.DB, logger *zap.SugaredLogger) *CommentService {
	return &CommentService{db: db, logger: logger}
}

// Create 读者对已发布文章发表评论
func (s *CommentService) Create(ctx context.Context, ownerID uint, locale string, articleID uint, req *dto.CommentCreateRequest) (*model.Comment, error) {
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.Content = strings.TrimSpace(req.Content)
	req.Website = strings.TrimSpace(req.Website)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	err := db.Model(&model.Article{}).
		Where("id = ? AND user_id = ? AND status = ? AND locale = ?", articleID, ownerID, model.ArticleStatusPublished, locale).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	comment := &model.Comment{
		ArticleID:  articleID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
		Website:    req.Website,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	s.logger.Infow("新评论", "article_id", articleID, "comment_id", comment.ID)
	return comment, nil
}

// ListForArticle 文章下的评论，按时间正序
func (s *CommentService) ListForArticle(ctx context.Context, articleID uint) ([]model.Comment, error) {
	var list []model.Comment
	err := s.db.WithContext(ctx).Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

// ownedComments 只包含当前用户文章下的评论
func (s *CommentService) ownedComments(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("comments.article_id IN (?)",
			s.db.Model(&model.Article{}).Select("id").Where("user_id = ?", userID))
}

// ListForOwner 后台评论列表，最新在前
func (s *CommentService) ListForOwner(ctx context.Context, userID uint, page int) ([]model.Comment, int64, int, error) {
	page, offset := pageOffset(page, DashboardPageSize)
	var total int64
	if err := s.ownedComments(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, page, err
	}
	list := []model.Comment{}
	if int64(offset) >= total {
		return list, total, page, nil
	}
	err := s.ownedComments(ctx, userID).
		Preload("Article").
		Order("comments.created_at DESC, comments.id DESC").
		Offset(offset).
		Limit(DashboardPageSize).
		Find(&list).Error
	return list, total, page, err
}

// Get 获取自己文章下的评论
func (s *CommentService) Get(ctx context.Context, userID, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := s.ownedComments(ctx, userID).Preload("Article").
		Where("comments.id = ?", id).First(&comment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// Delete 永久删除评论
func (s *CommentService) Delete(ctx context.Context, userID, id uint) error {
	comment, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Comment{}, comment.ID).Error
}
