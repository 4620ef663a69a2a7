package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/dualpascal/blog-api/internal/database"
	"github.com/dualpascal/blog-api/internal/logger"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/internal/task"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/cache"
	"github.com/dualpascal/blog-api/pkg/idgen"
	"github.com/dualpascal/blog-api/pkg/mailer"
	"github.com/dualpascal/blog-api/pkg/queue"
	"github.com/dualpascal/blog-api/pkg/storage"
	"github.com/dualpascal/blog-api/pkg/umami"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app 进程内共享的依赖
type app struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	db         *gorm.DB
	redis      *redis.Client
	es         *elasticsearch.Client
	jwt        *auth.Manager
	userFilter *cache.BloomFilter
	queue      *queue.RedisQueue
	async      *task.AsyncDispatcher
	runner     *task.Runner
	services   *service.Services
}

// initializeSystem 初始化配置和日志
func initializeSystem() error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %v", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %v", err)
	}
	return nil
}

// bootstrap 建立数据库、Redis、Elasticsearch连接并组装服务
func bootstrap(ctx context.Context) (*app, error) {
	if err := initializeSystem(); err != nil {
		return nil, err
	}
	cfg := config.GlobalConfig
	a := &app{cfg: cfg, log: logger.Named("app")}

	if err := idgen.Init(cfg.Queue.NodeID); err != nil {
		return nil, fmt.Errorf("初始化ID生成器失败: %v", err)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	if err := model.InitTables(db); err != nil {
		return nil, fmt.Errorf("初始化数据库表失败: %v", err)
	}

	if cfg.Redis.Enabled {
		if a.redis, err = database.InitRedis(); err != nil {
			return nil, err
		}
	}
	if cfg.Elasticsearch.Enabled {
		if a.es, err = database.InitElasticsearch(); err != nil {
			return nil, err
		}
		if err := model.InitESIndices(a.es, cfg.Elasticsearch.Index); err != nil {
			return nil, fmt.Errorf("初始化Elasticsearch索引失败: %v", err)
		}
	}

	var blacklist auth.Blacklist
	var htmlCache *cache.RedisCache
	if a.redis != nil {
		blacklist = auth.NewRedisBlacklist(a.redis, logger.Named("auth"))
		htmlCache = cache.NewRedisCache(a.redis)
	}
	a.jwt = auth.NewManager(auth.Options{
		SecretKey:     cfg.JWT.SecretKey,
		Issuer:        cfg.JWT.Issuer,
		AccessExpire:  cfg.JWT.AccessExpire(),
		RefreshExpire: cfg.JWT.RefreshExpire(),
	}, blacklist)

	a.userFilter = cache.NewUserFilter(a.redis)
	n, err := cache.WarmUpUserFilter(ctx, a.userFilter, db)
	if err != nil {
		a.log.Warnf("预热用户过滤器部分失败: %v", err)
	}
	a.log.Infof("用户过滤器已预热: %d", n)

	a.runner = task.NewRunner(logger.Named("task"))
	var dispatcher task.Dispatcher
	if a.redis != nil {
		a.queue, err = queue.NewRedisQueue(a.redis, queue.Config{
			Stream:     cfg.Queue.Stream,
			Group:      cfg.Queue.Group,
			Consumer:   cfg.Queue.Consumer,
			MaxRetries: cfg.Queue.MaxRetries,
			RetryDelay: time.Duration(cfg.Queue.RetryDelaySeconds) * time.Second,
		}, logger.Named("queue"))
		if err != nil {
			return nil, fmt.Errorf("初始化任务队列失败: %v", err)
		}
		dispatcher = task.NewQueueDispatcher(a.queue)
	} else {
		a.async = task.NewAsyncDispatcher(a.runner, logger.Named("task"),
			cfg.Queue.MaxRetries, time.Duration(cfg.Queue.RetryDelaySeconds)*time.Second)
		dispatcher = a.async
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("初始化存储失败: %v", err)
	}

	var umamiClient *umami.Client
	if cfg.Analytics.Enabled {
		umamiClient = umami.NewClient(cfg.Analytics.BaseURL, cfg.Analytics.Username, cfg.Analytics.Password,
			time.Duration(cfg.Analytics.TimeoutSeconds)*time.Second)
	}

	var mail mailer.Mailer = mailer.NewLogMailer(logger.Named("mail"))
	if cfg.Mail.Enabled {
		smtpMailer, err := mailer.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password,
			cfg.Mail.From, time.Duration(cfg.Mail.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		mail = smtpMailer
	}

	a.services = service.New(service.Deps{
		DB:          db,
		Logger:      logger.Named("service"),
		JWT:         a.jwt,
		Cache:       htmlCache,
		UserFilter:  a.userFilter,
		ES:          a.es,
		ESIndex:     cfg.Elasticsearch.Index,
		Storage:     store,
		MaxFileSize: cfg.Storage.MaxFileSize,
		AllowedMIME: cfg.Storage.AllowedTypes,
		Dispatcher:  dispatcher,
		Umami:       umamiClient,
		Domain:      cfg.Analytics.Domain,
		Mailer:      mail,
		Operator:    cfg.Mail.OperatorAddress,
		Captcha: service.CaptchaConfig{
			Enabled: cfg.Captcha.Enabled,
			Height:  cfg.Captcha.Height,
			Width:   cfg.Captcha.Width,
			Length:  cfg.Captcha.Length,
		},
	})
	a.services.RegisterTasks(a.runner)
	return a, nil
}

// startWorkers 启动队列消费者，未启用Redis时任务在进程内执行
func (a *app) startWorkers(ctx context.Context) {
	if a.queue == nil {
		return
	}
	a.queue.Start(ctx, a.cfg.Queue.Concurrency, a.runner.Handle)
	a.log.Infof("任务消费者已启动: concurrency=%d", a.cfg.Queue.Concurrency)
}

// close 等待后台任务并释放连接
func (a *app) close() {
	if a.queue != nil {
		a.queue.Wait()
	}
	if a.async != nil {
		a.async.Wait()
	}
	if a.userFilter != nil && a.redis != nil {
		if err := a.userFilter.SaveToRedis(context.Background()); err != nil {
			a.log.Warnf("保存用户过滤器失败: %v", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Sync()
}
