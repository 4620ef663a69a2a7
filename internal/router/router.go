package router

import (
	"net/http"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/dualpascal/blog-api/internal/controller"
	"github.com/dualpascal/blog-api/internal/logger"
	"github.com/dualpascal/blog-api/internal/middleware"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/dualpascal/blog-api/pkg/validate"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options 路由依赖
type Options struct {
	Services *service.Services
	JWT      *auth.Manager
	Logger   *zap.SugaredLogger
	Cors     config.CorsConfig
	// 本地存储时提供上传文件的静态访问
	UploadDir    string
	UploadPrefix string
}

// Setup 设置API路由
func Setup(r *gin.Engine, opts Options) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	authMw := middleware.NewAuth(opts.JWT, log.Named("auth"))
	validate.RegisterGin()

	r.Use(logger.GinLogger(), gin.Recovery(), middleware.Cors(opts.Cors))
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "页面不存在", nil)
	})

	if opts.UploadDir != "" && opts.UploadPrefix != "" {
		r.Static(opts.UploadPrefix, opts.UploadDir)
	}

	api := r.Group("/api")
	// 根据 Accept-Language 跳转到对应语言
	api.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/"+middleware.PreferredLocale(c.GetHeader("Accept-Language")))
	})

	setupPublicRoutes(api, opts.Services, log)
	setupUserRoutes(api, opts.Services, authMw, log)
	setupDashboardRoutes(api, opts.Services, authMw, log)
	setupAdminRoutes(api, opts.Services, authMw, log)
}

// setupPublicRoutes 公开的博客页面和联系表单
func setupPublicRoutes(api *gin.RouterGroup, svc *service.Services, log *zap.SugaredLogger) {
	articleApi := controller.NewArticleApi(svc, log.Named("article"))
	commentApi := controller.NewCommentApi(svc, log.Named("comment"))
	searchApi := controller.NewSearchApi(svc, log.Named("search"))
	userApi := controller.NewUserApi(svc, log.Named("user"))
	contactApi := controller.NewContactApi(svc, log.Named("contact"))

	api.GET("/captcha", contactApi.Captcha)
	api.POST("/contacts", contactApi.Submit)

	localized := api.Group("/:locale", middleware.Locale())
	{
		localized.GET("", func(c *gin.Context) {
			locale := middleware.GetLocale(c)
			response.Success(c, "获取成功", gin.H{
				"locale":    locale,
				"alternate": model.CounterpartLocale(locale),
			})
		})
		localized.GET("/search", searchApi.Global)

		blog := localized.Group("/u/:username")
		blog.GET("/profile", userApi.PublicProfile)
		blog.GET("/articles", articleApi.PublicList)
		blog.GET("/articles/:id", articleApi.PublicDetail)
		blog.POST("/articles/:id/comments", commentApi.Create)
		blog.GET("/search", searchApi.User)
	}
}

// setupUserRoutes 注册登录和令牌
func setupUserRoutes(api *gin.RouterGroup, svc *service.Services, authMw *middleware.Auth, log *zap.SugaredLogger) {
	userApi := controller.NewUserApi(svc, log.Named("user"))

	users := api.Group("/users")
	{
		users.POST("/register", userApi.Register)
		users.POST("/login", userApi.Login)
		users.POST("/refresh", userApi.RefreshToken)
	}

	authed := api.Group("/users", authMw.JWTAuth())
	{
		authed.POST("/logout", userApi.Logout)
		authed.GET("/me", userApi.Me)
	}
}

// setupDashboardRoutes 用户后台
func setupDashboardRoutes(api *gin.RouterGroup, svc *service.Services, authMw *middleware.Auth, log *zap.SugaredLogger) {
	articleApi := controller.NewArticleApi(svc, log.Named("article"))
	translationApi := controller.NewTranslationApi(svc, log.Named("translation"))
	categoryApi := controller.NewCategoryApi(svc, log.Named("category"))
	tagApi := controller.NewTagApi(svc, log.Named("tag"))
	commentApi := controller.NewCommentApi(svc, log.Named("comment"))
	imageApi := controller.NewImageApi(svc, log.Named("image"))
	userApi := controller.NewUserApi(svc, log.Named("user"))

	dashboard := api.Group("/dashboard", authMw.JWTAuth())
	{
		dashboard.GET("/articles", articleApi.List)
		dashboard.POST("/articles", articleApi.Create)
		dashboard.GET("/articles/:id", articleApi.Get)
		dashboard.PUT("/articles/:id", articleApi.Update)
		dashboard.DELETE("/articles/:id", articleApi.Delete)
		dashboard.GET("/articles/:id/export", articleApi.Export)

		dashboard.GET("/articles/:id/translation/new", translationApi.New)
		dashboard.GET("/articles/:id/translation", translationApi.Get)
		dashboard.POST("/articles/:id/translation", translationApi.Create)
		dashboard.PUT("/articles/:id/translation", translationApi.Update)
		dashboard.DELETE("/articles/:id/translation", translationApi.Delete)

		dashboard.GET("/categories", categoryApi.List)
		dashboard.POST("/categories", categoryApi.Create)
		dashboard.GET("/categories/:id", categoryApi.Get)
		dashboard.PUT("/categories/:id", categoryApi.Update)
		dashboard.DELETE("/categories/:id", categoryApi.Delete)

		dashboard.GET("/tags", tagApi.List)
		dashboard.DELETE("/tags/:id", tagApi.Delete)

		dashboard.GET("/comments", commentApi.List)
		dashboard.GET("/comments/:id", commentApi.Get)
		dashboard.DELETE("/comments/:id", commentApi.Delete)

		dashboard.POST("/preview", articleApi.Preview)
		dashboard.POST("/images", imageApi.Upload)

		dashboard.GET("/profile", userApi.Me)
		dashboard.PUT("/profile", userApi.UpdateProfile)
		dashboard.GET("/blog-setting", userApi.GetBlogSetting)
		dashboard.PUT("/blog-setting", userApi.UpdateBlogSetting)
		dashboard.GET("/analytics", userApi.Analytics)
	}
}

// setupAdminRoutes 管理后台
func setupAdminRoutes(api *gin.RouterGroup, svc *service.Services, authMw *middleware.Auth, log *zap.SugaredLogger) {
	adminApi := controller.NewAdminApi(svc, log.Named("admin"))

	admin := api.Group("/admin", authMw.AdminAuth())
	{
		admin.GET("/dashboard", adminApi.Dashboard)

		admin.GET("/users", adminApi.ListUsers)
		admin.GET("/users/:id", adminApi.GetUser)
		admin.PATCH("/users/:id/status", adminApi.UpdateUserStatus)

		admin.GET("/articles", adminApi.ListArticles)
		admin.DELETE("/articles/:id", adminApi.DeleteArticle)

		admin.GET("/contacts", adminApi.ListContacts)
		admin.GET("/contacts/:id", adminApi.GetContact)
		admin.PATCH("/contacts/:id", adminApi.ResolveContact)
	}
}
