package handler

import (
	"fmt"
	"net/http"

	"restaurant_reviews/internal/middleware"
	"restaurant_reviews/internal/service"

	"github.com/gin-gonic/gin"
)

const reviewEntity = "Review"

// ReviewHandler handles review requests
type ReviewHandler struct {
	service service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, reviews, len(reviews))
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := parseID(c, reviewEntity)
	if !ok {
		return
	}

	review, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) ListReviewsForRestaurant(c *gin.Context) {
	id, ok := parseID(c, restaurantEntity)
	if !ok {
		return
	}

	listing, err := h.service.ListForRestaurant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, listing)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	input, ok := bindBody(c)
	if !ok {
		return
	}
	author, _ := middleware.CurrentUser(c)

	review, err := h.service.Create(c.Request.Context(), input, author)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := parseID(c, reviewEntity)
	if !ok {
		return
	}
	input, ok := bindBody(c)
	if !ok {
		return
	}

	review, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, reviewEntity)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, fmt.Sprintf("Review with ID %d was successfully deleted", id))
}

// RegisterReviewRoutes registers review routes
func (h *ReviewHandler) RegisterReviewRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("", middleware.Public(), h.ListReviews)
		reviews.GET("/:id", middleware.Public(), h.GetReview)
		reviews.GET("/restaurant/:id", middleware.Public(), h.ListReviewsForRestaurant)
		reviews.POST("", middleware.UserOnly(), h.CreateReview)
		reviews.PATCH("/:id", middleware.UserOnly(), h.UpdateReview)
		reviews.DELETE("/:id", middleware.UserOnly(), h.DeleteReview)
	}
}
