package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const ctxLocale = "locale"

// Locale 校验路由中的语言参数，不支持的语言返回404
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Param("locale")
		if !model.ValidLocale(locale) {
			response.NotFound(c, "页面不存在", nil)
			c.Abort()
			return
		}
		c.Set(ctxLocale, locale)
		c.Next()
	}
}

// GetLocale 当前请求的语言
func GetLocale(c *gin.Context) string {
	if v := c.GetString(ctxLocale); v != "" {
		return v
	}
	return model.DefaultLocale
}

var localeMatcher = language.NewMatcher([]language.Tag{language.Japanese, language.English})

// PreferredLocale 按 Accept-Language 选择语言，无法判断时使用日语
func PreferredLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return model.DefaultLocale
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return model.DefaultLocale
	}
	if index == 1 {
		return model.LocaleEN
	}
	return model.LocaleJA
}

// Cors 跨域中间件
func Cors(cfg config.CorsConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[o] = true
	}
	methods := strings.Join(cfg.AllowMethods, ",")
	if methods == "" {
		methods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	}
	headers := strings.Join(cfg.AllowHeaders, ",")
	if headers == "" {
		headers = "Origin,Content-Type,Accept,Authorization"
	}
	maxAge := strconv.Itoa(int((12 * time.Hour).Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
