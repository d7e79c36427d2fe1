package http

import (
	"log/slog"
	"os"
	"time"

	"blogd/internal/auth"
	"blogd/internal/cache"
	"blogd/internal/config"
	"blogd/internal/http/handlers"
	"blogd/internal/http/middlewares"
	"blogd/internal/observability"
	"blogd/internal/repo/file"
	"blogd/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, st *store.Store, cfg config.Config, reg *prometheus.Registry, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.Delay(cfg.DelayMS))
	r.Use(otelgin.Middleware("blogd"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health + metrics
	ping := func() error {
		_, err := os.Stat(st.Dir())
		return err
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// wire up repositories

	usersRepo := file.NewUsersRepo(st)
	postsRepo := file.NewPostsRepo(st)
	commentsRepo := file.NewCommentsRepo(st)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	tokenCache := cache.New(0) // default TTL, well under the session TTL
	authmw := middlewares.NewAuthMiddleware(jwtManager, tokenCache)

	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	usersHandler := handlers.NewUsersHandler(usersRepo)
	postsHandler := handlers.NewPostsHandler(postsRepo)
	commentsHandler := handlers.NewCommentsHandler(commentsRepo)
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, cfg)

	api := r.Group("/api")

	ar := api.Group("/auth")
	ar.POST("/register", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
	ar.POST("/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	ar.POST("/logout", authHandler.Logout)
	ar.GET("/me", authmw.RequireAuth(), authHandler.Me)

	ur := api.Group("/users", authmw.RequireAuth())
	ur.GET("/all", authmw.RequireRole("admin"), usersHandler.ListAll)
	ur.GET("/:id", usersHandler.GetByID)
	ur.GET("", authmw.RequireRole("admin"), usersHandler.Paginate)
	ur.POST("", authmw.RequireRole("admin"), usersHandler.Create)
	ur.PUT("/:id", authmw.RequireRole("admin"), usersHandler.Update)
	ur.DELETE("/:id", authmw.RequireRole("admin"), usersHandler.Delete)

	pr := api.Group("/posts")
	pr.GET("", postsHandler.List)
	pr.GET("/:id", postsHandler.GetByID)
	pr.POST("", authmw.RequireAuth(), postsHandler.Create)
	pr.PUT("/:id", authmw.RequireAuth(), postsHandler.Update)
	pr.DELETE("/:id", authmw.RequireAuth(), postsHandler.Delete)

	cr := api.Group("/comments")
	cr.GET("/post/:id", commentsHandler.ListByPost)
	cr.POST("", authmw.RequireAuth(), commentsHandler.Create)
	cr.DELETE("/:id", authmw.RequireAuth(), commentsHandler.Delete)

	return r
}
