package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/handler"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/provider"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/provider/github"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/provider/google"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/resolver"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/comment"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/config"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/handshake"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/metrics"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/middleware"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/post"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/token"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	userStore := user.NewStore(infra.DB)
	commentStore := comment.NewStore(infra.DB)
	postStore := post.NewStore(infra.DB)

	identityResolver := resolver.New(userStore)
	handshakeStore := handshake.NewStore(infra.Redis.Client)

	githubProvider, err := github.New(
		cfg.GithubClientID,
		cfg.GithubClientSecret,
		cfg.GithubRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	providers := provider.NewRegistry(
		githubProvider,
		googleProvider,
	)

	authHandler := handler.NewHandler(
		providers,
		identityResolver,
		codec,
		handshakeStore,
		collector,
		cfg.FrontendBaseURL,
	)

	authMiddleware := middleware.NewAuthMiddleware(codec, collector)
	requireAuth := middleware.GinRequireAuth(authMiddleware)

	commentHandler := comment.NewHandler(commentStore, postStore, collector)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)
	commentHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
