package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goodthings/api/internal/application"
	"github.com/goodthings/api/internal/domain/entity"
	repo "github.com/goodthings/api/internal/domain/repository"
	"github.com/goodthings/api/internal/interface/middleware"
	"github.com/goodthings/api/pkg/helpers"
	"github.com/goodthings/api/pkg/validation"
)

const testCookieName = "jwt"

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[string]*entity.User{}} }

func (r *fakeRepo) clone(u *entity.User) *entity.User {
	cp := *u
	cp.Deals = append([]entity.Deal{}, u.Deals...)
	cp.Friends = append([]string{}, u.Friends...)
	return &cp
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.clone(u), nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *r.clone(u))
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return repo.ErrEmailTaken
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.Email] = r.clone(u)
	return nil
}

func (r *fakeRepo) UpdateName(_ context.Context, email, name string) error {
	return r.update(email, func(u *entity.User) { u.Name = name })
}

func (r *fakeRepo) UpdateDeals(_ context.Context, email string, deals []entity.Deal) error {
	return r.update(email, func(u *entity.User) { u.Deals = append([]entity.Deal{}, deals...) })
}

func (r *fakeRepo) UpdateFriends(_ context.Context, email string, friends []string) error {
	return r.update(email, func(u *entity.User) { u.Friends = append([]string{}, friends...) })
}

func (r *fakeRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, email)
	return nil
}

func (r *fakeRepo) update(email string, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return repo.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

var _ repo.UserRepository = (*fakeRepo)(nil)

type testEnv struct {
	router *gin.Engine
	repo   *fakeRepo
	jwt    *helpers.JWTManager
	logs   *logtest.Hook
}

// newTestEnv builds the full route surface against the fake store.
// cookieMode switches the login transport exactly as config does.
func newTestEnv(t *testing.T, cookieMode bool, ttl time.Duration) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	r := newFakeRepo()
	jwt := helpers.NewJWTManager("test_secret_key_1234567890", ttl)
	logger, hook := logtest.NewNullLogger()

	authSvc := application.NewAuthService(r, jwt, helpers.NewHasher(bcrypt.MinCost), logger, nil)
	userSvc := application.NewUserService(r, logger)
	cookies := helpers.NewCookie(testCookieName, "/", "localhost", false, http.SameSiteLaxMode)

	authHandler := NewAuthHandler(authSvc, logger, cookies, cookieMode)
	userHandler := NewUserHandler(userSvc, logger)

	engine := gin.New()
	engine.Use(middleware.RealIP())
	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	if cookieMode {
		auth.GET("/logout", authHandler.Logout)
	}
	auth.GET("/me", middleware.Auth(jwt, testCookieName), authHandler.Me)

	user := engine.Group("/user")
	user.Use(middleware.Auth(jwt, testCookieName))
	{
		user.GET("/users", userHandler.ListUsers)
		user.PUT("/user", userHandler.UpdateUser)
		user.DELETE("/user", userHandler.RemoveUser)
		user.GET("/deals", userHandler.ListDeals)
		user.POST("/create-deal", userHandler.CreateDeal)
		user.PUT("/update-deal", userHandler.UpdateDeal)
		user.DELETE("/remove-deal", userHandler.RemoveDeal)
		user.GET("/friends", userHandler.ListFriends)
		user.POST("/add-friend", userHandler.AddFriend)
		user.DELETE("/remove-friend", userHandler.RemoveFriend)
	}

	return &testEnv{router: engine, repo: r, jwt: jwt, logs: hook}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, email, password, name string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": password, "name": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (e *testEnv) token(t *testing.T, email, name string) string {
	t.Helper()
	token, _, err := e.jwt.Issue(helpers.Principal{Email: email, Name: name})
	require.NoError(t, err)
	return token
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
