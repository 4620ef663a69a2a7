package service

import (
	"context"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/dualpascal/blog-api/internal/task"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/cache"
	"github.com/dualpascal/blog-api/pkg/mailer"
	"github.com/dualpascal/blog-api/pkg/queue"
	"github.com/dualpascal/blog-api/pkg/storage"
	"github.com/dualpascal/blog-api/pkg/umami"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 构建服务所需的依赖，除 DB、Logger、JWT 外均可为空
type Deps struct {
	DB          *gorm.DB
	Logger      *zap.SugaredLogger
	JWT         *auth.Manager
	Cache       *cache.RedisCache
	UserFilter  *cache.BloomFilter
	ES          *elasticsearch.Client
	ESIndex     string
	Storage     storage.Storage
	MaxFileSize int64
	AllowedMIME []string
	Dispatcher  task.Dispatcher
	Umami       *umami.Client
	Domain      string
	Mailer      mailer.Mailer
	Operator    string
	Captcha     CaptchaConfig
}

// Services 全部业务服务
type Services struct {
	User        *UserService
	Tag         *TagService
	Category    *CategoryService
	Article     *ArticleService
	Query       *ArticleQuery
	Translation *TranslationService
	Search      *SearchService
	Comment     *CommentService
	BlogSetting *BlogSettingService
	Image       *ImageService
	Analytics   *AnalyticsService
	Contact     *ContactService
	Admin       *AdminService
	Indexer     *ESIndexer
}

// New 按依赖组装服务
func New(d Deps) *Services {
	log := d.Logger
	s := &Services{}

	var indexer ArticleIndexer
	if d.ES != nil {
		s.Indexer = NewESIndexer(d.ES, d.ESIndex, d.DB, log.Named("es"))
		indexer = s.Indexer
	}

	var statsCache cache.Cache
	if d.Cache != nil {
		statsCache = d.Cache
	}

	s.Tag = NewTagService(d.DB, log.Named("tag"))
	s.User = NewUserService(d.DB, log.Named("user"), d.JWT, d.Dispatcher, d.UserFilter)
	s.Category = NewCategoryService(d.DB, log.Named("category"))
	s.Article = NewArticleService(d.DB, log.Named("article"), s.Tag, d.Cache, indexer)
	s.Query = NewArticleQuery(d.DB)
	s.Translation = NewTranslationService(d.DB, log.Named("translation"), s.Tag, s.Article)
	s.Search = NewSearchService(d.DB, d.ES, d.ESIndex, log.Named("search"))
	s.Comment = NewCommentService(d.DB, log.Named("comment"))
	s.BlogSetting = NewBlogSettingService(d.DB, log.Named("blog_setting"))
	s.Analytics = NewAnalyticsService(d.DB, log.Named("analytics"), d.Umami, d.Domain)
	s.Contact = NewContactService(d.DB, log.Named("contact"), d.Captcha, d.Dispatcher, d.Mailer, d.Operator)
	s.Admin = NewAdminService(d.DB, log.Named("admin"), statsCache, s.Article)
	if d.Storage != nil {
		s.Image = NewImageService(d.DB, log.Named("image"), d.Storage, d.MaxFileSize, d.AllowedMIME)
	}
	return s
}

// RegisterTasks 注册后台任务处理函数
func (s *Services) RegisterTasks(r *task.Runner) {
	r.Register(task.TypeProvisionAnalytics, func(ctx context.Context, t queue.Task) error {
		var p task.ProvisionAnalyticsPayload
		if err := decodePayload(t, &p); err != nil {
			return err
		}
		return s.Analytics.Provision(ctx, p.UserID)
	})
	r.Register(task.TypeContactNotification, func(ctx context.Context, t queue.Task) error {
		var p task.ContactNotificationPayload
		if err := decodePayload(t, &p); err != nil {
			return err
		}
		return s.Contact.Notify(ctx, p.ContactID)
	})
}

// decodePayload 载荷格式错误不再重试
func decodePayload(t queue.Task, v any) error {
	if err := t.Decode(v); err != nil {
		return retry.Unrecoverable(fmt.Errorf("解析任务载荷失败: %w", err))
	}
	return nil
}
