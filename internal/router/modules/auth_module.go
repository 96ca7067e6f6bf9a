package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/goodthings/api/internal/interface/http"
	"github.com/goodthings/api/internal/interface/middleware"
	"github.com/goodthings/api/pkg/helpers"
)

// AuthModule wires the credential and session routes.
// Public: POST /auth/register, POST /auth/login
// Protected: GET /auth/me
// Cookie variant only: GET /auth/logout
type AuthModule struct {
	Handler    *handlers.AuthHandler
	JWT        *helpers.JWTManager
	CookieName string
	CookieMode bool
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, cookieName string, cookieMode bool) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, CookieName: cookieName, CookieMode: cookieMode}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", m.Handler.Register)
	auth.POST("/login", m.Handler.Login)
	if m.CookieMode {
		auth.GET("/logout", m.Handler.Logout)
	}

	guarded := auth.Group("/")
	guarded.Use(middleware.Auth(m.JWT, m.CookieName))
	{
		guarded.GET("/me", m.Handler.Me)
	}
}
