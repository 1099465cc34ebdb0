package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func handleError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "fields": verr.Fields})
	case errors.Is(err, domain.ErrBookingNotFound), errors.Is(err, domain.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBookingNotAchieved), errors.Is(err, domain.ErrReviewExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBookingIDsExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequestBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
}
