package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/goodthings/api/internal/application"
	"github.com/goodthings/api/internal/domain/entity"
	"github.com/goodthings/api/internal/interface/middleware"
	"github.com/goodthings/api/pkg/helpers"
	"github.com/goodthings/api/pkg/response"
	"github.com/goodthings/api/pkg/validation"
)

// AuthHandler exposes registration, login, logout and the principal echo
// endpoint. CookieMode selects the token transport; the issuing logic is the
// same either way.
type AuthHandler struct {
	Svc        *application.AuthService
	Logger     *logrus.Logger
	Cookies    *helpers.CookieManager
	CookieMode bool
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.CookieManager, cookieMode bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies, CookieMode: cookieMode}
}

type registerRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=4"`
	Name     string   `json:"name" binding:"required"`
	Deals    []string `json:"deals"`
	Friends  []string `json:"friends"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

// userView maps a user record onto the wire, hash excluded.
func userView(u *entity.User) gin.H {
	return gin.H{
		"email":      u.Email,
		"name":       u.Name,
		"deals":      u.Deals,
		"friends":    u.Friends,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Register handles POST /auth/register. New accounts always start with empty
// deal and friend lists; any lists in the payload are ignored.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			h.Logger.WithFields(logrus.Fields{"email": req.Email, "ip": middleware.ClientIP(c)}).
				Warn("registration with taken email")
			response.Fail(c, http.StatusBadRequest, "user with such email already exists", nil)
			return
		}
		h.Logger.WithError(err).WithFields(logrus.Fields{"email": req.Email, "ip": middleware.ClientIP(c)}).
			Error("registration failed")
		response.Fail(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	c.JSON(http.StatusCreated, userView(u))
}

// Login handles POST /auth/login. Bearer variant returns the token in the
// body only; cookie variant additionally sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			h.Logger.WithFields(logrus.Fields{"email": req.Email, "ip": middleware.ClientIP(c)}).
				Warn("login rejected")
			response.Fail(c, http.StatusUnauthorized, "incorrect credentials", nil)
			return
		}
		h.Logger.WithError(err).WithFields(logrus.Fields{"email": req.Email, "ip": middleware.ClientIP(c)}).
			Error("login failed")
		response.Fail(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	if h.CookieMode {
		h.Cookies.Set(c, token, exp)
		c.JSON(http.StatusOK, gin.H{"message": "cookie set", "token": token, "expires_at": exp})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp})
}

// Logout handles GET /auth/logout (cookie variant only). Sessions are
// stateless, so this only instructs the browser to drop the cookie; the clear
// must match the set's name, path and domain.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "clear cookie"})
}

// Me handles GET /auth/me and echoes the validated principal.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing token", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": p.Email, "name": p.Name})
}
