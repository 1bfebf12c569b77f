package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/account"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/credentials"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/establish"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/state"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/middleware"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/terms"
)

const signInPath = "/auth/sign-in"

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	establisher       *establish.Establisher
	linker            *account.Linker
	credentialService *credentials.Service
	termsService      *terms.Service
	stateCodec        *state.Codec
	profilePath       string
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	establisher *establish.Establisher,
	linker *account.Linker,
	credentialService *credentials.Service,
	termsService *terms.Service,
	stateCodec *state.Codec,
	profilePath string,
) *Handler {
	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		establisher:       establisher,
		linker:            linker,
		credentialService: credentialService,
		termsService:      termsService,
		stateCodec:        stateCodec,
		profilePath:       profilePath,
	}
}

// RegisterRoutes mounts all auth endpoints. Everything under /auth/
// is excluded from the terms gate; the terms acceptance endpoints
// require a session but not current standing.
func (h *Handler) RegisterRoutes(r *gin.Engine, authMW *middleware.AuthMiddleware) {
	r.GET("/auth/login/:provider", h.begin)
	r.GET("/auth/callback/:provider", h.callback)
	r.GET("/auth/magic/verify", h.magicVerify)

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	agreed := r.Group("/auth/terms-agreement")
	agreed.Use(middleware.GinRequireAuth(authMW))
	agreed.GET("", h.TermsStatus)
	agreed.POST("", h.AcceptTerms)
}
