package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// userCmd 用户管理命令
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "用户管理命令",
	Long:  `用户管理相关的命令，包括创建管理员、列出用户、停用或恢复用户`,
}

// createAdminCmd 创建管理员用户命令
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员用户",
	Long:  `交互式创建管理员用户`,
	Run: func(cmd *cobra.Command, args []string) {
		createAdminUser()
	},
}

var listSearch string

// listUsersCmd 列出用户命令
var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "列出用户",
	Long:  `列出系统中的用户，可按用户名或邮箱搜索`,
	Run: func(cmd *cobra.Command, args []string) {
		listUsers()
	},
}

// updateUserStatusCmd 更新用户状态命令
var updateUserStatusCmd = &cobra.Command{
	Use:   "update-status [username] [status]",
	Short: "更新用户状态",
	Long:  `更新用户状态 (active=正常, suspended=停用, pending=待激活)，管理员状态不可修改`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		updateUserStatus(args[0], args[1])
	},
}

func init() {
	listUsersCmd.Flags().StringVarP(&listSearch, "search", "s", "", "按用户名或邮箱搜索")

	userCmd.AddCommand(createAdminCmd)
	userCmd.AddCommand(listUsersCmd)
	userCmd.AddCommand(updateUserStatusCmd)

	rootCmd.AddCommand(userCmd)
}

// readPassword 不回显读取密码
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(data), err
}

// createAdminUser 创建管理员用户
func createAdminUser() {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("请输入管理员用户名: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("请输入管理员邮箱: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	password, err := readPassword("请输入管理员密码: ")
	if err != nil {
		fmt.Printf("读取密码失败: %v\n", err)
		return
	}
	confirm, err := readPassword("请确认管理员密码: ")
	if err != nil {
		fmt.Printf("读取确认密码失败: %v\n", err)
		return
	}
	if password != confirm {
		fmt.Println("两次输入的密码不一致")
		return
	}

	user, err := a.services.User.CreateAdmin(ctx, username, email, password)
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			for field, msg := range ve.Fields {
				fmt.Printf("%s: %s\n", field, msg)
			}
			return
		}
		fmt.Printf("创建管理员失败: %v\n", err)
		return
	}
	fmt.Printf("管理员创建成功: %s (ID: %d)\n", user.Username, user.ID)
}

// listUsers 列出用户
func listUsers() {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	users, total, _, err := a.services.Admin.ListUsers(ctx, &dto.AdminUserListQuery{Search: listSearch})
	if err != nil {
		fmt.Printf("获取用户列表失败: %v\n", err)
		return
	}

	fmt.Printf("共 %d 个用户\n", total)
	fmt.Printf("%-6s %-20s %-30s %-8s %-10s %-6s %s\n", "ID", "用户名", "邮箱", "角色", "状态", "文章", "注册时间")
	fmt.Println(strings.Repeat("-", 100))
	for _, u := range users {
		fmt.Printf("%-6d %-20s %-30s %-8s %-10s %-6d %s\n",
			u.ID, u.Username, u.Email, u.Role, u.Status, u.ArticleCount, u.CreatedAt)
	}
}

// updateUserStatus 更新用户状态
func updateUserStatus(username, status string) {
	ctx := context.Background()
	a := mustBootstrap(ctx)
	defer a.close()

	var user model.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		fmt.Printf("用户不存在: %s\n", username)
		return
	}

	updated, err := a.services.Admin.UpdateUserStatus(ctx, user.ID, &dto.UserStatusRequest{Status: status})
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			fmt.Printf("状态无效: %s\n", ve.Fields["status"])
			return
		}
		fmt.Printf("更新用户状态失败: %v\n", err)
		return
	}
	fmt.Printf("用户 %s 的状态已更新为 %s\n", updated.Username, updated.Status)
}
