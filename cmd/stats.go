package cmd

import (
	"context"
	"fmt"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/spf13/cobra"
)

// statsCmd 统计信息命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "统计信息命令",
}

// systemStatsCmd 系统统计
var systemStatsCmd = &cobra.Command{
	Use:   "system",
	Short: "显示系统统计信息",
	Run: func(cmd *cobra.Command, args []string) {
		showSystemStats()
	},
}

// dbStatusCmd 连接状态
var dbStatusCmd = &cobra.Command{
	Use:   "db-status",
	Short: "显示数据库、Redis和Elasticsearch连接状态",
	Run: func(cmd *cobra.Command, args []string) {
		showDatabaseStatus()
	},
}

func init() {
	statsCmd.AddCommand(systemStatsCmd)
	statsCmd.AddCommand(dbStatusCmd)

	rootCmd.AddCommand(statsCmd)
}

// showSystemStats 显示系统统计信息，同时刷新后台统计缓存
func showSystemStats() {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	stats, err := a.services.Admin.RefreshStats(ctx)
	if err != nil {
		fmt.Printf("统计失败: %v\n", err)
		return
	}

	var translations, comments, categories, tags int64
	a.db.Model(&model.Article{}).Where("original_article_id IS NOT NULL").Count(&translations)
	a.db.Model(&model.Comment{}).Count(&comments)
	a.db.Model(&model.Category{}).Count(&categories)
	a.db.Model(&model.Tag{}).Count(&tags)

	fmt.Println("=== 系统统计信息 ===")
	fmt.Printf("用户总数: %d (本月新增: %d)\n", stats.TotalUsers, stats.ThisMonthUsers)
	fmt.Printf("文章总数: %d (已发布: %d, 译文: %d)\n", stats.TotalArticles, stats.PublishedArticles, translations)
	fmt.Printf("评论总数: %d\n", comments)
	fmt.Printf("分类总数: %d\n", categories)
	fmt.Printf("标签总数: %d\n", tags)
	fmt.Printf("联系记录: %d (未处理: %d)\n", stats.TotalContacts, stats.UnresolvedContacts)
}

// showDatabaseStatus 显示数据库状态
func showDatabaseStatus() {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	fmt.Println("=== 数据库状态 ===")

	sqlDB, err := a.db.DB()
	if err != nil {
		fmt.Printf("数据库(%s): 连接失败 - %v\n", a.cfg.Database.Driver, err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		fmt.Printf("数据库(%s): 连接失败 - %v\n", a.cfg.Database.Driver, err)
	} else {
		s := sqlDB.Stats()
		fmt.Printf("数据库(%s): 连接正常\n", a.cfg.Database.Driver)
		fmt.Printf("  - 最大连接数: %d\n", s.MaxOpenConnections)
		fmt.Printf("  - 当前连接数: %d\n", s.OpenConnections)
		fmt.Printf("  - 空闲连接数: %d\n", s.Idle)
		fmt.Printf("  - 使用中连接数: %d\n", s.InUse)
	}

	if a.es == nil {
		fmt.Println("Elasticsearch: 未启用")
	} else if res, err := a.es.Info(a.es.Info.WithContext(ctx)); err != nil {
		fmt.Printf("Elasticsearch: 连接失败 - %v\n", err)
	} else {
		res.Body.Close()
		fmt.Printf("Elasticsearch: 连接正常 - %s\n", res.Status())
	}

	if a.redis == nil {
		fmt.Println("Redis: 未启用")
	} else if pong, err := a.redis.Ping(ctx).Result(); err != nil {
		fmt.Printf("Redis: 连接失败 - %v\n", err)
	} else {
		fmt.Printf("Redis: 连接正常 - %s\n", pong)
	}
}
