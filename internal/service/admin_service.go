package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// adminRecentArticles 用户详情中展示的文章数
const adminRecentArticles = 10

// AdminService 管理后台
type AdminService struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	cache    cache.Cache
	articles *ArticleService
	now      func() time.Time
}

// NewAdminService 创建管理服务，cache 可为nil
func NewAdminService(db *gorm.DB, log *zap.SugaredLogger, c cache.Cache, articles *ArticleService) *AdminService {
	return &AdminService{db: db, log: log, cache: c, articles: articles, now: time.Now}
}

// Stats 后台首页统计，优先读取缓存
func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	if s.cache != nil {
		var stats dto.AdminStats
		err := s.cache.GetJSON(ctx, cache.AdminDashboardKey, &stats)
		if err == nil {
			return &stats, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warnf("读取统计缓存失败: %v", err)
		}
	}
	return s.RefreshStats(ctx)
}

// RefreshStats 并发重新计算统计并写入缓存
func (s *AdminService) RefreshStats(ctx context.Context) (*dto.AdminStats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats := &dto.AdminStats{}

	count := func(dest *int64, m interface{}, query string, args ...interface{}) func() error {
		return func() error {
			db := s.db.WithContext(ctx).Model(m)
			if query != "" {
				db = db.Where(query, args...)
			}
			return db.Count(dest).Error
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(count(&stats.TotalUsers, &model.User{}, ""))
	g.Go(count(&stats.TotalArticles, &model.Article{}, ""))
	g.Go(count(&stats.PublishedArticles, &model.Article{}, "status = ?", model.ArticleStatusPublished))
	g.Go(count(&stats.ThisMonthUsers, &model.User{}, "created_at >= ?", monthStart))
	g.Go(count(&stats.TotalContacts, &model.Contact{}, ""))
	g.Go(count(&stats.UnresolvedContacts, &model.Contact{}, "resolved = ?", false))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.GeneratedAt = dto.FormatTime(now)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.AdminDashboardKey, stats, cache.StatsExpiration); err != nil {
			s.log.Warnf("写入统计缓存失败: %v", err)
		}
	}
	return stats, nil
}

// ListUsers 用户列表，可按用户名或邮箱搜索
func (s *AdminService) ListUsers(ctx context.Context, q *dto.AdminUserListQuery) ([]dto.AdminUserItem, int64, int, error) {
	page, offset := pageOffset(q.PageOrFirst(), DashboardPageSize)
	scope := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&model.User{})
		if kw := strings.ToLower(strings.TrimSpace(q.Search)); kw != "" {
			pattern := "%" + escapeLike(kw) + "%"
			db = db.Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')", pattern, pattern)
		}
		return db
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, page, err
	}
	items := []dto.AdminUserItem{}
	if int64(offset) >= total {
		return items, total, page, nil
	}

	var users []model.User
	if err := scope().Order("created_at DESC, id DESC").Offset(offset).Limit(DashboardPageSize).Find(&users).Error; err != nil {
		return nil, 0, page, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	var rows []struct {
		UserID uint
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&model.Article{}).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, page, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}

	for i := range users {
		items = append(items, dto.AdminUserItem{
			User:         &users[i],
			ArticleCount: counts[users[i].ID],
			CreatedAt:    dto.FormatTime(users[i].CreatedAt),
		})
	}
	return items, total, page, nil
}

// GetUser 用户详情及最近的文章
func (s *AdminService) GetUser(ctx context.Context, id uint) (*dto.AdminUserDetail, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	var articles []model.Article
	err := s.db.WithContext(ctx).Preload("Category").Preload("Tags").
		Where("user_id = ?", id).
		Order("created_at DESC, id DESC").
		Limit(adminRecentArticles).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return &dto.AdminUserDetail{User: &user, Articles: dto.ToArticleListItems(articles)}, nil
}

// UpdateUserStatus 修改用户状态，管理员账号不可修改
func (s *AdminService) UpdateUserStatus(ctx context.Context, id uint, req *dto.UserStatusRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	if user.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("status", req.Status).Error; err != nil {
		return nil, err
	}
	s.log.Infow("修改用户状态", "user_id", id, "status", req.Status)
	user.Status = req.Status
	return &user, nil
}

// ListArticles 全部文章
func (s *AdminService) ListArticles(ctx context.Context, page int) (*ArticlePage, error) {
	return s.articles.ListAll(ctx, page)
}

// DeleteArticle 删除任意文章
func (s *AdminService) DeleteArticle(ctx context.Context, id uint) error {
	return s.articles.DeleteAny(ctx, id)
}
