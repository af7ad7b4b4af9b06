package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/api/middleware"
	"foodgram/internal/api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc   service.UserService
	followSvc service.FollowService
	authSvc   service.AuthService
}

func NewUserHandler(
	userSvc service.UserService,
	followSvc service.FollowService,
	authSvc service.AuthService,
) *UserHandler {
	return &UserHandler{
		userSvc:   userSvc,
		followSvc: followSvc,
		authSvc:   authSvc,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("/", middleware.AuthMiddleware(h.authSvc))
	authed.GET("/me", h.Me)
	authed.GET("/subscriptions", h.Subscriptions)
	authed.POST("/:user_id/subscribe", h.Subscribe)
	authed.DELETE("/:user_id/subscribe", h.Unsubscribe)

	rg.GET("/:user_id", middleware.OptionalAuthMiddleware(h.authSvc), h.Get)
}

func (h *UserHandler) Get(c *gin.Context) {
	userID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userSvc.Get(ctx, userID, middleware.RequesterID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	requesterID := middleware.RequesterID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userSvc.Get(ctx, requesterID, requesterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.followSvc.Subscribe(ctx, middleware.RequesterID(c), authorID, recipesLimit(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrSelfSubscribe):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot subscribe to yourself"})
		case errors.Is(err, service.ErrAlreadySubscribed):
			c.JSON(http.StatusConflict, gin.H{"error": "already subscribed to this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.followSvc.Unsubscribe(ctx, middleware.RequesterID(c), authorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrNotSubscribed):
			c.JSON(http.StatusNotFound, gin.H{"error": "not subscribed to this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.followSvc.Subscriptions(ctx, middleware.RequesterID(c), recipesLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// recipesLimit caps how many recipes each author carries in a subscription
// payload. 0 means no cap.
func recipesLimit(c *gin.Context) int {
	if s := strings.TrimSpace(c.Query("recipes_limit")); s != "" {
		if limit, err := strconv.Atoi(s); err == nil && limit >= 0 {
			return limit
		}
	}
	return 0
}
