package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     zerolog.Logger
}

type bookingResponse struct {
	BookingID   string `json:"booking_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Package     string `json:"package"`
	EventName   string `json:"event_name"`
	Guests      int    `json:"guests"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// bookingDetailResponse is the staff view, which also carries the lifecycle flags.
type bookingDetailResponse struct {
	bookingResponse
	IsConfirmed bool `json:"is_confirmed"`
	IsAchieved  bool `json:"is_achieved"`
}

func NewBookingHandler(service booking.BookingUseCase, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/create/", h.create)
	router.GET("/", h.list)
	router.GET("/:booking_id/", h.get)
	router.PATCH("/:booking_id/", h.update)
	router.POST("/:booking_id/confirm/", h.confirm)
	router.POST("/:booking_id/achieve/", h.achieve)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	response := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		response = append(response, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req booking.UpdateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), c.Param("booking_id"), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailResponse(updated))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailResponse(confirmed))
}

func (h *BookingHandler) achieve(c *gin.Context) {
	achieved, err := h.service.AchieveBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailResponse(achieved))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:   b.BookingID,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		PhoneNumber: b.PhoneNumber,
		Email:       b.Email,
		Package:     b.Package,
		EventName:   b.EventName,
		Guests:      b.Guests,
		EventDate:   b.EventDate.Format(domain.DateLayout),
		EventTime:   b.EventTime,
		Location:    b.Location,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingDetailResponse(b *domain.Booking) bookingDetailResponse {
	return bookingDetailResponse{
		bookingResponse: toBookingResponse(b),
		IsConfirmed:     b.IsConfirmed,
		IsAchieved:      b.IsAchieved,
	}
}
