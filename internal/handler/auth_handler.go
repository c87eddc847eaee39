package handler

import (
	"net/http"

	"restaurant_reviews/internal/middleware"
	"restaurant_reviews/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	scheme  string
}

// NewAuthHandler creates a new AuthHandler. scheme prefixes issued tokens.
func NewAuthHandler(s service.AuthService, scheme string) *AuthHandler {
	return &AuthHandler{service: s, scheme: scheme}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	input, ok := bindBody(c)
	if !ok {
		return
	}

	if _, err := h.service.Signup(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "Account has been successfully registered")
}

func (h *AuthHandler) Login(c *gin.Context) {
	input, ok := bindBody(c)
	if !ok {
		return
	}

	_, token, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "You have been successfully logged in",
		Token:   h.scheme + " " + token,
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", middleware.Public(), h.Signup)
		authGroup.POST("/login", middleware.Public(), h.Login)
	}
}
