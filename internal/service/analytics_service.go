package service

import (
	"context"
	"fmt"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/umami"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnalyticsService Umami统计开通
type AnalyticsService struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	client *umami.Client
	domain string
}

// NewAnalyticsService 创建统计服务，client 为nil时表示未启用
func NewAnalyticsService(db *gorm.DB, log *zap.SugaredLogger, client *umami.Client, domain string) *AnalyticsService {
	return &AnalyticsService{db: db, log: log, client: client, domain: domain}
}

// Enabled 是否配置了统计服务
func (s *AnalyticsService) Enabled() bool {
	return s.client != nil
}

// Status 用户的统计开通状态
func (s *AnalyticsService) Status(ctx context.Context, userID uint) (*dto.AnalyticsStatus, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err)
	}
	status := &dto.AnalyticsStatus{
		Enabled:        s.Enabled(),
		SetupCompleted: user.HasAnalytics(),
	}
	if status.SetupCompleted {
		status.ShareURL = user.UmamiShareURL
	}
	return status, nil
}

// Provision 为用户创建统计站点，失败时开通标记保持为false
func (s *AnalyticsService) Provision(ctx context.Context, userID uint) error {
	if s.client == nil {
		s.log.Debugf("统计服务未启用，跳过开通: user_id=%d", userID)
		return nil
	}

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return notFound(err)
	}
	if user.HasAnalytics() {
		return nil
	}

	site, err := s.client.ProvisionWebsite(ctx, user.Username+" - "+model.DefaultBlogTitle, s.domain)
	if err != nil {
		return fmt.Errorf("开通统计失败: user_id=%d: %w", userID, err)
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"umami_website_id":          site.ID,
		"umami_share_url":           site.ShareURL,
		"analytics_setup_completed": true,
	}).Error
	if err != nil {
		return err
	}
	s.log.Infow("统计开通完成", "user_id", userID, "website_id", site.ID)
	return nil
}
