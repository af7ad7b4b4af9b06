package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/service"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	svc service.IngredientService
}

func NewIngredientHandler(svc service.IngredientService) *IngredientHandler {
	return &IngredientHandler{svc: svc}
}

func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:ingredient_id", h.Get)
}

// List handles GET /api/ingredients?name=<prefix> with case-insensitive
// prefix filtering for typeahead lookups.
func (h *IngredientHandler) List(c *gin.Context) {
	namePrefix := strings.TrimSpace(c.Query("name"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ingredients, err := h.svc.List(ctx, namePrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		resp = append(resp, dto.IngredientFromModel(ing))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("ingredient_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ing, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.IngredientFromModel(*ing))
}
