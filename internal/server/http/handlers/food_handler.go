package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// FoodHandler manages menu endpoints.
type FoodHandler struct {
	facade FoodFacade
}

// NewFoodHandler constructs FoodHandler.
func NewFoodHandler(facade FoodFacade) *FoodHandler {
	return &FoodHandler{facade: facade}
}

// List handles GET /api/foods.
func (h *FoodHandler) List(c *gin.Context) {
	foods, err := h.facade.Menu(c.Request.Context())
	if err != nil {
		failWith(c, "list_foods", err)
		return
	}
	if foods == nil {
		foods = []model.Food{}
	}
	respond(c, http.StatusOK, "", gin.H{"foods": foods})
}

// Create handles POST /api/foods.
func (h *FoodHandler) Create(c *gin.Context) {
	var req dto.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed food")
		return
	}
	food, err := h.facade.AddFood(c.Request.Context(), req.Food(""))
	if err != nil {
		failWith(c, "create_food", err)
		return
	}
	respond(c, http.StatusCreated, "Food added", gin.H{"food": food})
}

// Update handles PUT /api/foods/:id.
func (h *FoodHandler) Update(c *gin.Context) {
	var req dto.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed food")
		return
	}
	food, err := h.facade.UpdateFood(c.Request.Context(), req.Food(c.Param("id")))
	if err != nil {
		failWith(c, "update_food", err)
		return
	}
	respond(c, http.StatusOK, "Food updated", gin.H{"food": food})
}

// Delete handles DELETE /api/foods/:id.
func (h *FoodHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteFood(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, "delete_food", err)
		return
	}
	respond(c, http.StatusOK, "Food deleted", nil)
}
