package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/gin-gonic/gin"
)

const loginPath = "/login"

// respondError writes the one response shape every handler uses for failures.
func respondError(c *gin.Context, err error, fallback string) {
	msg := domain.UserMessage(err, fallback)

	var validationErr *domain.ValidationError
	switch {
	case domain.IsAuth(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": loginPath})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": validationErr.Fields})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
