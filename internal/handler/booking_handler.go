package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/host-booking/service-booking/internal/application"
	"github.com/host-booking/service-booking/internal/domain"
	"github.com/host-booking/service-booking/internal/response"
	"github.com/host-booking/service-booking/internal/validation"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service   *application.BookingService
	validator *validation.BookingValidator
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, validator *validation.BookingValidator) *BookingHandler {
	return &BookingHandler{service: service, validator: validator}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/booking")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.RemoveBooking)
	}
}

// CreateBooking handles POST /booking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req validation.CreateBookingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, malformedBody(err))
		return
	}

	draft, err := h.validator.ValidateCreate(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "/booking/"+strconv.FormatInt(result.ID, 10))
}

// GetBooking handles GET /booking/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := parseBookingID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PATCH /booking/:id. Only the fields present in the body change.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, err := parseBookingID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req validation.PatchBookingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, malformedBody(err))
		return
	}

	patch, err := h.validator.ValidatePatch(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.UpdateBooking(c.Request.Context(), bookingID, patch); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RemoveBooking handles DELETE /booking/:id.
func (h *BookingHandler) RemoveBooking(c *gin.Context) {
	bookingID, err := parseBookingID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.RemoveBooking(c.Request.Context(), bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// parseBookingID converts a path identifier. Anything that is not a positive
// integer is reported the same way as a missing booking.
func parseBookingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewNotFoundError(raw)
	}
	return id, nil
}

func malformedBody(err error) string {
	return "malformed request body: " + err.Error()
}
