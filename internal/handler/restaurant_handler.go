package handler

import (
	"fmt"
	"net/http"

	"restaurant_reviews/internal/middleware"
	"restaurant_reviews/internal/service"

	"github.com/gin-gonic/gin"
)

const restaurantEntity = "Restaurant"

// RestaurantHandler handles restaurant requests
type RestaurantHandler struct {
	service service.RestaurantService
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(s service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, restaurants, len(restaurants))
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, restaurantEntity)
	if !ok {
		return
	}

	restaurant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, restaurant)
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	input, ok := bindBody(c)
	if !ok {
		return
	}

	restaurant, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseID(c, restaurantEntity)
	if !ok {
		return
	}
	input, ok := bindBody(c)
	if !ok {
		return
	}

	restaurant, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, restaurant)
}

func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	id, ok := parseID(c, restaurantEntity)
	if !ok {
		return
	}

	restaurant, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, fmt.Sprintf("Restaurant %s and all of its reviews were successfully deleted", restaurant.Name))
}

// RegisterRestaurantRoutes registers restaurant routes
func (h *RestaurantHandler) RegisterRestaurantRoutes(rg *gin.RouterGroup) {
	restaurants := rg.Group("/restaurants")
	{
		restaurants.GET("", middleware.Public(), h.ListRestaurants)
		restaurants.GET("/:id", middleware.Public(), h.GetRestaurant)
		restaurants.POST("", middleware.AdminOnly(), h.CreateRestaurant)
		restaurants.PATCH("/:id", middleware.AdminOnly(), h.UpdateRestaurant)
		restaurants.DELETE("/:id", middleware.AdminOnly(), h.DeleteRestaurant)
	}
}
