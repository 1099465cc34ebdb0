package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
	log     zerolog.Logger
}

type reviewResponse struct {
	ID         int64            `json:"id"`
	Booking    *bookingResponse `json:"booking"`
	ReviewText string           `json:"review_text"`
	Rating     int              `json:"rating"`
	CreatedAt  string           `json:"created_at"`
	IsVerified bool             `json:"is_verified"`
}

func NewReviewHandler(service reviews.ReviewUseCase, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, log: log}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.POST("/create/", h.create)
	router.GET("/", h.listVerified)
	router.GET("/top/", h.top)
	router.POST("/:id/verify/", h.verify)
}

func (h *ReviewHandler) create(c *gin.Context) {
	var req reviews.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) listVerified(c *gin.Context) {
	list, err := h.service.ListVerified(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(list))
}

func (h *ReviewHandler) top(c *gin.Context) {
	list, err := h.service.TopReviews(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(list))
}

func (h *ReviewHandler) verify(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handleError(c, h.log, domain.ErrReviewNotFound)
		return
	}

	review, err := h.service.VerifyReview(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

func toReviewResponse(r *domain.Review) reviewResponse {
	resp := reviewResponse{
		ID:         r.ID,
		ReviewText: r.ReviewText,
		Rating:     r.Rating,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		IsVerified: r.IsVerified,
	}
	if r.Booking != nil {
		b := toBookingResponse(r.Booking)
		resp.Booking = &b
	}
	return resp
}

func toReviewResponses(list []domain.Review) []reviewResponse {
	response := make([]reviewResponse, 0, len(list))
	for i := range list {
		response = append(response, toReviewResponse(&list[i]))
	}
	return response
}
