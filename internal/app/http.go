package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/account"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/credentials"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/establish"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/handler"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/magiclink"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider/google"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider/kakao"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider/naver"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/state"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/config"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/metrics"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/middleware"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/terms"
)

// setupProviders registers every provider whose credentials are
// present. A provider with missing credentials is skipped: requests
// naming it answer with a config_error redirect instead of a crash.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.Google().Configured() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.Kakao().Configured() {
		p, err := kakao.New(cfg.KakaoClientID, cfg.KakaoClientSecret)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.Naver().Configured() {
		p, err := naver.New(cfg.NaverClientID, cfg.NaverClientSecret)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name())
	}
	logger.Info("oauth providers registered", map[string]any{
		"providers": names,
	})

	return provider.NewRegistry(list...), nil
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	accountStore := account.NewDBStore(infra.DB)
	termsStore := terms.NewDBStore(infra.DB)

	termsService := terms.NewService(termsStore, cfg.TermsCurrentVersion)
	magicService := magiclink.NewService(magiclink.NewRedisStore(infra.Redis.Client))
	credentialService := credentials.NewService(infra.DB, accountStore)

	establisher := establish.New(
		account.NewResolver(accountStore),
		accountStore,
		sessionStore,
		magicService,
		termsService,
	)
	linker := account.NewLinker(accountStore)

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		establisher,
		linker,
		credentialService,
		termsService,
		state.NewCodec(cfg.StateSecret),
		cfg.ProfilePath,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)
	termsGate := middleware.NewTermsGate(cfg.TermsCurrentVersion, cfg.TermsAdminBypass)

	metrics.Register()

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router, authMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", metrics.Handler())

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		accountID, _ := middleware.AccountIDFromContext(c.Request.Context())
		acct, err := accountStore.FindByID(c.Request.Context(), accountID)
		if err != nil || acct == nil {
			c.JSON(500, gin.H{"error": "account lookup failed"})
			return
		}
		c.JSON(200, gin.H{
			"account_id":       acct.ID,
			"email":            acct.Email,
			"name":             acct.Name,
			"signup_provider":  acct.SignupProvider,
			"linked_providers": acct.LinkedProviders,
		})
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------
	// The terms gate runs after auth so claims are in context. Its
	// excluded prefixes keep /auth/, /api/, and operational routes
	// out even if it is ever mounted more broadly.

	web := router.Group("/mypage")
	web.Use(middleware.GinRequireAuth(authMiddleware))
	web.Use(middleware.GinTermsGate(termsGate))

	web.GET("/profile", func(c *gin.Context) {
		accountID, _ := middleware.AccountIDFromContext(c.Request.Context())
		acct, err := accountStore.FindByID(c.Request.Context(), accountID)
		if err != nil || acct == nil {
			c.JSON(500, gin.H{"error": "account lookup failed"})
			return
		}
		c.JSON(200, gin.H{
			"account_id":       acct.ID,
			"email":            acct.Email,
			"name":             acct.Name,
			"picture":          acct.Picture,
			"signup_provider":  acct.SignupProvider,
			"linked_providers": acct.LinkedProviders,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
