package api

import (
	"net/http"
	"path/filepath"

	"github.com/Domenick1991/eventbooking/internal/middleware"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	// SwaggerDir holds doc.json. The UI is disabled when empty.
	SwaggerDir string
}

func NewRouter(cfg RouterConfig, bookingSvc booking.BookingUseCase, reviewSvc reviews.ReviewUseCase, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Recovery(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	NewBookingHandler(bookingSvc, log).Register(apiGroup.Group("/bookings"))
	NewReviewHandler(reviewSvc, log).Register(apiGroup.Group("/reviews"))

	if cfg.SwaggerDir != "" {
		docPath := filepath.Join(cfg.SwaggerDir, "doc.json")
		ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		router.GET("/swagger/*any", func(c *gin.Context) {
			if c.Param("any") == "/doc.json" {
				c.File(docPath)
				return
			}
			ui(c)
		})
	}

	return router
}
