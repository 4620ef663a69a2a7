package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/spf13/cobra"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库表迁移、搜索索引同步和数据导出`,
}

// migrateCmd 迁移数据库表
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "初始化数据库表和搜索索引",
	Run: func(cmd *cobra.Command, args []string) {
		migrate()
	},
}

// syncESCmd 同步搜索索引
var syncESCmd = &cobra.Command{
	Use:   "sync-es",
	Short: "重建文章搜索索引",
	Long:  `将所有已发布文章写入Elasticsearch，需要启用Elasticsearch`,
	Run: func(cmd *cobra.Command, args []string) {
		syncArticlesToES()
	},
}

// exportCmd 导出表数据
var exportCmd = &cobra.Command{
	Use:   "export [table] [file]",
	Short: "导出表数据为JSON",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		exportTable(args[0], args[1])
	},
}

func init() {
	databaseCmd.AddCommand(migrateCmd)
	databaseCmd.AddCommand(syncESCmd)
	databaseCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(databaseCmd)
}

// migrate 表和索引在启动时创建
func migrate() {
	a := mustBootstrap(context.Background())
	defer a.close()

	fmt.Printf("数据库表初始化成功 (%d 张)\n", len(model.Models))
	if a.es != nil {
		fmt.Println("Elasticsearch索引初始化成功")
	}
}

// syncArticlesToES 同步文章到Elasticsearch
func syncArticlesToES() {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	if a.services.Indexer == nil {
		fmt.Println("未启用Elasticsearch")
		return
	}
	fmt.Println("开始同步文章到Elasticsearch...")
	n, err := a.services.Indexer.SyncAll(ctx)
	if err != nil {
		fmt.Printf("同步文章到ES失败: %v\n", err)
		return
	}
	fmt.Printf("文章同步完成，共 %d 篇\n", n)
}

// exportTable 导出表数据
func exportTable(tableName, fileName string) {
	a := mustBootstrap(context.Background())
	defer a.close()

	if !knownTable(a, tableName) {
		fmt.Printf("未知的表: %s\n", tableName)
		return
	}

	var data []map[string]interface{}
	if err := a.db.Table(tableName).Find(&data).Error; err != nil {
		fmt.Printf("导出数据失败: %v\n", err)
		return
	}

	file, err := os.Create(fileName)
	if err != nil {
		fmt.Printf("创建文件失败: %v\n", err)
		return
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Printf("写入文件失败: %v\n", err)
		return
	}
	fmt.Printf("成功导出 %d 条记录到 %s\n", len(data), fileName)
}

// knownTable 只允许导出应用自己的表
func knownTable(a *app, name string) bool {
	for _, m := range model.Models {
		stmt := a.db.Model(m).Statement
		if err := stmt.Parse(m); err == nil && stmt.Schema.Table == name {
			return true
		}
	}
	return false
}
