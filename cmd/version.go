package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// 编译时通过 -ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// versionCmd 版本信息命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blog-api %s\n", Version)
		fmt.Printf("Git提交: %s\n", GitCommit)
		fmt.Printf("构建时间: %s\n", BuildTime)
		fmt.Printf("Go版本: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
