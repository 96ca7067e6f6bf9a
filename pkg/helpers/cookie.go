package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager writes and clears the session cookie. Name, path and domain
// must be identical on set and clear, otherwise the browser keeps the stale
// cookie in place.
type CookieManager struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookie(name, path, domain string, secure bool, sameSite http.SameSite) *CookieManager {
	if path == "" {
		path = "/"
	}
	return &CookieManager{Name: name, Path: path, Domain: domain, Secure: secure, SameSite: sameSite}
}

// Set stores the token as an HttpOnly cookie expiring with the token.
func (m *CookieManager) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), m.Path, m.Domain, m.Secure, true)
}

// Clear expires the cookie under the exact attributes used by Set.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, m.Path, m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
