package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/config"
	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/token"
	"github.com/d60-Lab/yatube/pkg/validation"
)

// Deps 路由依赖
type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	Tokens  *token.Manager
	Users   service.UserService
}

// Setup 注册中间件与全部路由
func Setup(d Deps) *gin.Engine {
	cfg := d.Config
	gin.SetMode(cfg.Server.Mode)
	if err := validation.RegisterGin(); err != nil {
		logger.Error("register validators failed", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}
	r.Use(middleware.Authenticate(d.Tokens, d.Users))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := d.Handler
	siteAuth := middleware.RequireSiteAuth(cfg.Server.LoginURL)

	// 站点
	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:post_id/", h.PostDetail)
	r.GET("/create/", siteAuth, h.CreateForm)
	r.POST("/create/", siteAuth, h.CreatePostForm)
	r.GET("/posts/:post_id/edit/", siteAuth, h.EditForm)
	r.POST("/posts/:post_id/edit/", siteAuth, h.EditPostForm)
	r.POST("/posts/:post_id/comment/", siteAuth, h.AddCommentForm)
	r.GET("/follow/", siteAuth, h.FollowIndex)
	r.POST("/profile/:username/follow/", siteAuth, h.ProfileFollow)
	r.POST("/profile/:username/unfollow/", siteAuth, h.ProfileUnfollow)

	auth := r.Group("/auth")
	{
		auth.GET("/login/", h.LoginForm)
		auth.POST("/login/", h.Login)
		auth.POST("/signup/", h.Signup)
		auth.POST("/logout/", h.Logout)
	}

	// API
	v1 := r.Group("/v1")
	{
		v1.POST("/createuser/", h.CreateUser)
		v1.POST("/api-token-auth/", h.ObtainToken)

		v1.GET("/groups/", h.ListGroups)
		v1.GET("/groups/:group_id/", h.GetGroup)

		v1.GET("/posts/", h.ListPosts)
		v1.GET("/posts/:post_id/", h.GetPost)
		v1.GET("/posts/:post_id/comments/", h.ListComments)
		v1.GET("/posts/:post_id/comments/:comment_id/", h.GetComment)

		v1.GET("/users/:username/following", h.ListFollowing)
		v1.GET("/users/:username/followers", h.ListFollowers)

		authed := v1.Group("", middleware.RequireAPIAuth())
		authed.POST("/posts/", h.CreatePost)
		authed.PUT("/posts/:post_id/", h.UpdatePost)
		authed.PATCH("/posts/:post_id/", h.PatchPost)
		authed.DELETE("/posts/:post_id/", h.DeletePost)
		authed.POST("/posts/:post_id/comments/", h.CreateComment)
		authed.PUT("/posts/:post_id/comments/:comment_id/", h.UpdateComment)
		authed.PATCH("/posts/:post_id/comments/:comment_id/", h.UpdateComment)
		authed.DELETE("/posts/:post_id/comments/:comment_id/", h.DeleteComment)
		authed.POST("/follow/", h.Follow)
		authed.DELETE("/follow/:username/", h.Unfollow)
	}

	return r
}
