package router

import (
	"html/template"
	"net/http"

	"github.com/complai/internal/handler"
	"github.com/complai/internal/logging"
	"github.com/complai/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionName = "complai_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(web.Templates(), "*.html")))
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/ping", api.Ping)
	r.GET("/api/health", api.HealthCheck)

	public := r.Group("/")
	public.Use(api.LocaleMiddleware())
	{
		public.GET("/", api.ShowHome)
		public.GET("/posts", api.ShowPostList)
		public.GET("/posts/:slug", api.ShowPostDetail)
		public.GET("/pages", api.ShowPageList)
		public.GET("/pages/:slug", api.ShowPageDetail)
	}

	r.NoRoute(api.LocaleMiddleware(), api.ShowNotFound)

	return r
}
