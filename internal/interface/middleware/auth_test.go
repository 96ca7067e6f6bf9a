package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodthings/api/pkg/helpers"
)

func newGuardedRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(jwt, "jwt"), func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "name": p.Name})
	})
	return r
}

func TestAuth_BearerHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("test_secret_key_1234567890", time.Hour)
	r := newGuardedRouter(jwt)

	token, _, err := jwt.Issue(helpers.Principal{Email: "a@b.com", Name: "A"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")
}

func TestAuth_Cookie(t *testing.T) {
	jwt := helpers.NewJWTManager("test_secret_key_1234567890", time.Hour)
	r := newGuardedRouter(jwt)

	token, _, err := jwt.Issue(helpers.Principal{Email: "a@b.com", Name: "A"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejections(t *testing.T) {
	jwt := helpers.NewJWTManager("test_secret_key_1234567890", time.Hour)
	r := newGuardedRouter(jwt)

	expired := helpers.NewJWTManager("test_secret_key_1234567890", -time.Hour)
	expiredToken, _, err := expired.Issue(helpers.Principal{Email: "a@b.com", Name: "A"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(req *http.Request)
	}{
		{name: "no token", prepare: func(*http.Request) {}},
		{name: "garbage bearer", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer garbage")
		}},
		{name: "wrong scheme", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Basic abc")
		}},
		{name: "expired cookie token", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "jwt", Value: expiredToken})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestPrincipalFromContext_Unguarded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := PrincipalFromContext(c)
	assert.False(t, ok)
}
