package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/goodthings/api/internal/interface/http"
	"github.com/goodthings/api/internal/interface/middleware"
	"github.com/goodthings/api/pkg/helpers"
)

// UserModule wires the per-user CRUD routes. Everything here requires a valid
// session token.
type UserModule struct {
	Handler    *handlers.UserHandler
	JWT        *helpers.JWTManager
	CookieName string
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, cookieName string) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, CookieName: cookieName}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(middleware.Auth(m.JWT, m.CookieName))
	{
		user.GET("/users", m.Handler.ListUsers)
		user.PUT("/user", m.Handler.UpdateUser)
		user.DELETE("/user", m.Handler.RemoveUser)

		user.GET("/deals", m.Handler.ListDeals)
		user.POST("/create-deal", m.Handler.CreateDeal)
		user.PUT("/update-deal", m.Handler.UpdateDeal)
		user.DELETE("/remove-deal", m.Handler.RemoveDeal)

		user.GET("/friends", m.Handler.ListFriends)
		user.POST("/add-friend", m.Handler.AddFriend)
		user.DELETE("/remove-friend", m.Handler.RemoveFriend)
	}
}
