package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goodthings/api/pkg/helpers"
	"github.com/goodthings/api/pkg/response"
)

const (
	ctxEmailKey = "principalEmail"
	ctxNameKey  = "principalName"
)

// Auth validates the session token and stores the decoded principal in the
// Gin context. The token is read from the Authorization bearer header first,
// then from the session cookie, so both transport variants share one guard.
//
// Handlers pull the principal out once via PrincipalFromContext and pass it
// into services explicitly; nothing below the handler reads request state.
func Auth(jwt *helpers.JWTManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "missing token", nil)
			return
		}
		p, err := jwt.Verify(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(ctxEmailKey, p.Email)
		c.Set(ctxNameKey, p.Name)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext returns the principal placed by Auth. The bool is
// false when the route was not guarded.
func PrincipalFromContext(c *gin.Context) (helpers.Principal, bool) {
	email := c.GetString(ctxEmailKey)
	if email == "" {
		return helpers.Principal{}, false
	}
	return helpers.Principal{Email: email, Name: c.GetString(ctxNameKey)}, true
}
