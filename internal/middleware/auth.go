package middleware

import (
	"strings"
	"time"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 上下文键
const (
	ctxUserID      = "userID"
	ctxUserRole    = "userRole"
	ctxAccessToken = "accessToken"
)

// expireSoonBuffer 访问令牌剩余有效期低于该值时提示客户端刷新
const expireSoonBuffer = 5 * time.Minute

// Auth 基于JWT的认证中间件
type Auth struct {
	jwt *auth.Manager
	log *zap.SugaredLogger
}

// NewAuth 创建认证中间件
func NewAuth(jwt *auth.Manager, log *zap.SugaredLogger) *Auth {
	return &Auth{jwt: jwt, log: log}
}

// bearerToken 从Authorization头取出令牌
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// parse 校验访问令牌并写入上下文
func (a *Auth) parse(c *gin.Context, token string) error {
	claims, err := a.jwt.ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Type != auth.AccessToken {
		return auth.ErrWrongTokenType
	}
	if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < expireSoonBuffer {
		c.Header("X-Token-Expire-Soon", "true")
	}
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserRole, claims.Role)
	c.Set(ctxAccessToken, token)
	return nil
}

// authenticate 校验请求令牌，失败时写入401并中止
func (a *Auth) authenticate(c *gin.Context) bool {
	token, ok := bearerToken(c)
	if !ok {
		response.Unauthorized(c, "请先登录", nil)
		c.Abort()
		return false
	}
	if err := a.parse(c, token); err != nil {
		a.log.Warnf("无效的令牌: %v", err)
		response.Unauthorized(c, "无效的令牌", err)
		c.Abort()
		return false
	}
	return true
}

// JWTAuth 必须登录
func (a *Auth) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			return
		}
		c.Next()
	}
}

// AdminAuth 必须是管理员
func (a *Auth) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			return
		}
		if role, _ := GetUserRole(c); role != model.RoleAdmin {
			response.Forbidden(c, "需要管理员权限", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 令牌有效时写入用户信息，否则按匿名处理
func (a *Auth) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if err := a.parse(c, token); err != nil {
				a.log.Debugf("忽略无效的令牌: %v", err)
			}
		}
		c.Next()
	}
}

// GetUserID 从上下文中获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserRole 从上下文中获取用户角色
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// GetAccessToken 当前请求使用的访问令牌
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
