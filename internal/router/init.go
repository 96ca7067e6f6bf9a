package router

import (
	"github.com/goodthings/api/internal/application"
	"github.com/goodthings/api/internal/container"
	repouser "github.com/goodthings/api/internal/domain/repository"
	pginfra "github.com/goodthings/api/internal/infrastructure/postgres"
	"github.com/goodthings/api/internal/infrastructure/rediscache"
	handlers "github.com/goodthings/api/internal/interface/http"
	"github.com/goodthings/api/internal/router/modules"
	"github.com/goodthings/api/pkg/helpers"
)

func buildUserStore() repouser.UserRepository {
	cfg := container.GetConfig()
	var store repouser.UserRepository = pginfra.NewUserRepository(container.GetPGPool())
	if cfg.RedisEnabled && container.GetRedis() != nil {
		store = rediscache.NewUserRepository(store, container.GetRedis(), cfg.CacheTTL, container.GetLogger())
	}
	return store
}

// InitModules initializes all application modules and registers them with the
// router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	store := buildUserStore()

	authSvc := application.NewAuthService(
		store,
		container.GetJWT(),
		helpers.NewHasher(cfg.BcryptCost),
		container.GetLogger(),
		container.GetRabbitPub(),
	)
	userSvc := application.NewUserService(store, container.GetLogger())

	cookies := helpers.NewCookie(cfg.CookieName, cfg.CookiePath, cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger(), cookies, cfg.CookieMode)
	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT(), cfg.CookieName, cfg.CookieMode))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT(), cfg.CookieName))
}
