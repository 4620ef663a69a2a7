package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/dualpascal/blog-api/internal/logger"
	"github.com/dualpascal/blog-api/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "blog-api",
	Short: "双语博客API服务",
	Long:  `多用户日英双语博客服务，支持文章与译文配对、分类标签筛选、搜索和后台管理`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动HTTP服务器，同时在进程内运行后台任务和定时任务`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

// workerCmd 只运行后台任务
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "启动后台任务消费者",
	Long:  `只消费任务队列，不提供HTTP服务，需要启用Redis`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// mustBootstrap 初始化失败时退出
func mustBootstrap(ctx context.Context) *app {
	a, err := bootstrap(ctx)
	if err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	return a
}

// waitSignal 等待中断信号
func waitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// startServer 启动HTTP服务
func startServer() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := mustBootstrap(ctx)
	defer a.close()

	// 日志级别随配置文件热更新
	config.Watch(func(c *config.Config) {
		logger.SetLevel(c.Log.Level)
		logger.Info("配置已重新加载", zap.String("log_level", c.Log.Level))
	})

	a.startWorkers(ctx)
	scheduler, err := a.startCron(ctx)
	if err != nil {
		logger.Fatal("定时任务启动失败", zap.Error(err))
	}

	gin.SetMode(a.cfg.App.Mode)
	r := gin.New()
	opts := router.Options{
		Services: a.services,
		JWT:      a.jwt,
		Logger:   logger.Named("http"),
		Cors:     a.cfg.App.Cors,
	}
	if a.cfg.Storage.Type == "" || a.cfg.Storage.Type == "local" {
		opts.UploadDir = a.cfg.Storage.Local.Path
		opts.UploadPrefix = a.cfg.Storage.Local.URLPrefix
	}
	router.Setup(r, opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()
	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	waitSignal()
	logger.Info("关闭服务...")

	<-scheduler.Stop().Done()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务关闭异常", zap.Error(err))
	}
	logger.Info("服务已关闭")
}

// startWorker 只运行队列消费者
func startWorker() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := mustBootstrap(ctx)
	defer a.close()
	if a.queue == nil {
		fmt.Println("未启用Redis，任务在serve进程内执行")
		return
	}

	a.startWorkers(ctx)
	waitSignal()
	logger.Info("停止任务消费者...")
	cancel()
}
