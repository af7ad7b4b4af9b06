package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/middleware"
	"foodgram/internal/api/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	svc         service.RecipeService
	favoriteSvc service.FavoriteService
	cartSvc     service.ShoppingCartService
	authSvc     service.AuthService
}

func NewRecipeHandler(
	svc service.RecipeService,
	favoriteSvc service.FavoriteService,
	cartSvc service.ShoppingCartService,
	authSvc service.AuthService,
) *RecipeHandler {
	return &RecipeHandler{
		svc:         svc,
		favoriteSvc: favoriteSvc,
		cartSvc:     cartSvc,
		authSvc:     authSvc,
	}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public routes: anonymous reads get relation flags as false
	rg.GET("/", middleware.OptionalAuthMiddleware(h.authSvc), h.List)
	rg.GET("/:recipe_id", middleware.OptionalAuthMiddleware(h.authSvc), h.Get)

	// Authenticated routes
	authed := rg.Group("/", middleware.AuthMiddleware(h.authSvc))
	authed.POST("/", h.Create)
	authed.PATCH("/:recipe_id", h.Update)
	authed.DELETE("/:recipe_id", h.Delete)
	authed.POST("/:recipe_id/favorite", h.AddFavorite)
	authed.DELETE("/:recipe_id/favorite", h.RemoveFavorite)
	authed.POST("/:recipe_id/shopping_cart", h.AddToCart)
	authed.DELETE("/:recipe_id/shopping_cart", h.RemoveFromCart)
	authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
}

func (h *RecipeHandler) List(c *gin.Context) {
	requesterID := middleware.RequesterID(c)

	var filters dto.RecipeFilters

	// Parse tag slugs (repeatable ?tags=breakfast&tags=dinner)
	for _, slug := range c.QueryArray("tags") {
		if trimmed := strings.TrimSpace(slug); trimmed != "" {
			filters.TagSlugs = append(filters.TagSlugs, trimmed)
		}
	}

	filters.AuthorID = strings.TrimSpace(c.Query("author"))

	// Relation filters only apply to authenticated requesters
	if c.Query("is_favorited") == "1" && requesterID != "" {
		filters.FavoritedBy = requesterID
	}
	if c.Query("is_in_shopping_cart") == "1" && requesterID != "" {
		filters.InCartOf = requesterID
	}

	filters.Page = 1
	if pageStr := strings.TrimSpace(c.Query("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			filters.Page = page
		}
	}

	filters.Limit = 6
	if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 1 && limit <= 100 {
			filters.Limit = limit
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.List(ctx, filters, requesterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.Get(ctx, id, middleware.RequesterID(c))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeWriteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.Create(ctx, middleware.RequesterID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.RecipeWriteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.Update(ctx, id, middleware.RequesterID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id, middleware.RequesterID(c)); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	short, err := h.favoriteSvc.Add(ctx, middleware.RequesterID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrAlreadyFavorited):
			c.JSON(http.StatusConflict, gin.H{"error": "recipe already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.favoriteSvc.Remove(ctx, middleware.RequesterID(c), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrNotFavorited):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe is not in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	short, err := h.cartSvc.Add(ctx, middleware.RequesterID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrAlreadyInCart):
			c.JSON(http.StatusConflict, gin.H{"error": "recipe already in shopping cart"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.cartSvc.Remove(ctx, middleware.RequesterID(c), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrNotInCart):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe is not in shopping cart"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as an attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.cartSvc.BuildShoppingList(ctx, middleware.RequesterID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+list.Filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Content))
}

// writeError maps recipe write failures onto HTTP statuses.
func (h *RecipeHandler) writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrIngredientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotRecipeAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can modify this recipe"})
	case errors.Is(err, service.ErrWriteConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "recipe write conflicts with a concurrent change"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
