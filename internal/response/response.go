package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/host-booking/service-booking/internal/domain"
	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"github.com/host-booking/service-booking/internal/logger"
	"go.uber.org/zap"
)

// MessageInternal is the only detail clients get about an unexpected fault.
const MessageInternal = "internal server error"

// MessageBody is the generic error body.
type MessageBody struct {
	Message string `json:"message"`
}

// ViolationsBody lists every rejected field.
type ViolationsBody struct {
	ParameterViolations []domain.Violation `json:"parameterViolations"`
}

// AlreadyBookedBody describes an overlap conflict.
type AlreadyBookedBody struct {
	Message        string             `json:"message"`
	StartBooked    bookingDomain.Date `json:"start_booked"`
	EndBooked      bookingDomain.Date `json:"end_booked"`
	StartTryToBook bookingDomain.Date `json:"start_try_to_book"`
	EndTryToBook   bookingDomain.Date `json:"end_try_to_book"`
}

// Success writes a 200 with the given body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 with an empty body pointing at the new resource.
func Created(c *gin.Context, location string) {
	c.Header("Location", location)
	c.Status(http.StatusCreated)
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with a message body.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, MessageBody{Message: message})
}

// TooManyRequests writes a 429.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, MessageBody{Message: "rate limit exceeded"})
}

// InternalError logs the fault and writes a generic 500.
func InternalError(c *gin.Context, err error) {
	logger.FromContext(c).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, MessageBody{Message: MessageInternal})
}

// Error maps a service error to its HTTP representation. Domain errors are client
// errors; anything else is an internal fault.
func Error(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		bookedErr     *bookingDomain.AlreadyBookedError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ViolationsBody{ParameterViolations: validationErr.Violations})
	case errors.As(err, &bookedErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, AlreadyBookedBody{
			Message:        bookedErr.Error(),
			StartBooked:    bookedErr.Booked.Start,
			EndBooked:      bookedErr.Booked.End,
			StartTryToBook: bookedErr.Attempted.Start,
			EndTryToBook:   bookedErr.Attempted.End,
		})
	case errors.As(err, &notFoundErr):
		BadRequest(c, notFoundErr.Error())
	default:
		InternalError(c, err)
	}
}
