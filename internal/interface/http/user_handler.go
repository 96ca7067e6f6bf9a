package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/goodthings/api/internal/application"
	"github.com/goodthings/api/internal/interface/middleware"
	"github.com/goodthings/api/pkg/response"
	"github.com/goodthings/api/pkg/validation"
)

// UserHandler exposes the per-user CRUD surface: account maintenance plus the
// embedded deal and friend collections. Every route is guarded; the principal
// is taken from the context once and handed to the service explicitly.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

type createDealRequest struct {
	Title string `json:"title" binding:"required"`
}

type updateDealRequest struct {
	ID       string `json:"id" binding:"required"`
	NewTitle string `json:"new_title" binding:"required"`
}

type removeDealRequest struct {
	ID string `json:"id" binding:"required"`
}

type friendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *UserHandler) fail(c *gin.Context, err error, op string) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Fail(c, http.StatusNotFound, "user not found", nil)
		return
	}
	h.Logger.WithError(err).WithField("op", op).Error("storage operation failed")
	response.Fail(c, http.StatusInternalServerError, "storage unavailable", nil)
}

// ListUsers handles GET /user/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list users")
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateUser handles PUT /user/user and renames the authenticated user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateName(c.Request.Context(), p.Email, req.Name)
	if err != nil {
		h.fail(c, err, "update name")
		return
	}
	c.JSON(http.StatusOK, userView(u))
}

// RemoveUser handles DELETE /user/user and deletes the authenticated account.
func (h *UserHandler) RemoveUser(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	if err := h.Svc.DeleteAccount(c.Request.Context(), p.Email); err != nil {
		h.fail(c, err, "delete account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user removed"})
}

// ListDeals handles GET /user/deals.
func (h *UserHandler) ListDeals(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	deals, err := h.Svc.ListDeals(c.Request.Context(), p.Email)
	if err != nil {
		h.fail(c, err, "list deals")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// CreateDeal handles POST /user/create-deal and returns the new full list.
func (h *UserHandler) CreateDeal(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	deals, err := h.Svc.CreateDeal(c.Request.Context(), p.Email, req.Title)
	if err != nil {
		h.fail(c, err, "create deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// UpdateDeal handles PUT /user/update-deal.
func (h *UserHandler) UpdateDeal(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req updateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	deals, err := h.Svc.UpdateDeal(c.Request.Context(), p.Email, req.ID, req.NewTitle)
	if err != nil {
		h.fail(c, err, "update deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// RemoveDeal handles DELETE /user/remove-deal.
func (h *UserHandler) RemoveDeal(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req removeDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	deals, err := h.Svc.RemoveDeal(c.Request.Context(), p.Email, req.ID)
	if err != nil {
		h.fail(c, err, "remove deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// ListFriends handles GET /user/friends.
func (h *UserHandler) ListFriends(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	friends, err := h.Svc.ListFriends(c.Request.Context(), p.Email)
	if err != nil {
		h.fail(c, err, "list friends")
		return
	}
	c.JSON(http.StatusOK, friends)
}

// AddFriend handles POST /user/add-friend.
func (h *UserHandler) AddFriend(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	friends, err := h.Svc.AddFriend(c.Request.Context(), p.Email, req.Email)
	if err != nil {
		h.fail(c, err, "add friend")
		return
	}
	c.JSON(http.StatusOK, friends)
}

// RemoveFriend handles DELETE /user/remove-friend.
func (h *UserHandler) RemoveFriend(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	friends, err := h.Svc.RemoveFriend(c.Request.Context(), p.Email, req.Email)
	if err != nil {
		h.fail(c, err, "remove friend")
		return
	}
	c.JSON(http.StatusOK, friends)
}
