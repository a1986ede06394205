package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/host-booking/service-booking/internal/domain"
	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"go.uber.org/zap"
)

const (
	messageRequired    = "must not be null"
	messageInvalidDate = "must be a valid date (YYYY-MM-DD)"
	nullValue          = "null"
)

// CreateBookingPayload is the inbound representation of POST /booking.
type CreateBookingPayload struct {
	PropertyID *int64  `json:"property_id" path:"propertyId" validate:"required"`
	PersonID   *int64  `json:"person_id" path:"personId" validate:"required"`
	Start      *string `json:"start" path:"start" validate:"required,isodate"`
	End        *string `json:"end" path:"end" validate:"required,isodate"`
	Canceled   *bool   `json:"canceled" path:"canceled"`
}

// PatchBookingPayload is the inbound representation of PATCH /booking/:id.
// Every field is optional.
type PatchBookingPayload struct {
	PropertyID *int64  `json:"property_id" path:"propertyId"`
	PersonID   *int64  `json:"person_id" path:"personId"`
	Start      *string `json:"start" path:"start" validate:"omitempty,isodate"`
	End        *string `json:"end" path:"end" validate:"omitempty,isodate"`
	Canceled   *bool   `json:"canceled" path:"canceled"`
}

// BookingValidator checks inbound booking payloads and reports every violation at once.
type BookingValidator struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBookingValidator creates a BookingValidator with the custom date rule registered.
func NewBookingValidator(logger *zap.Logger) *BookingValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("path"); name != "" {
			return name
		}
		return f.Name
	})

	if err := v.RegisterValidation("isodate", validateISODate); err != nil {
		logger.Fatal("failed to register 'isodate' validator", zap.Error(err))
	}

	return &BookingValidator{
		validate: v,
		logger:   logger,
	}
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := bookingDomain.ParseDate(fl.Field().String())
	return err == nil
}

// ValidateCreate checks presence, date format and date order, and returns the
// validated draft.
func (v *BookingValidator) ValidateCreate(p *CreateBookingPayload) (bookingDomain.Draft, error) {
	violations, err := v.structViolations(p)
	if err != nil {
		return bookingDomain.Draft{}, err
	}

	if p.Start != nil && p.End != nil && !datesInOrder(*p.Start, *p.End) {
		violations = append(violations, dateOrderViolation(*p.Start, *p.End))
	}

	if len(violations) > 0 {
		return bookingDomain.Draft{}, domain.NewValidationError(violations...)
	}

	start, _ := bookingDomain.ParseDate(*p.Start)
	end, _ := bookingDomain.ParseDate(*p.End)
	draft := bookingDomain.Draft{
		PropertyID: *p.PropertyID,
		PersonID:   *p.PersonID,
		Start:      start,
		End:        end,
	}
	if p.Canceled != nil {
		draft.Canceled = *p.Canceled
	}
	return draft, nil
}

// ValidatePatch checks the format of the supplied dates and, when both are
// supplied, their order. The order of a partial range is checked against the
// stored booking by the service.
func (v *BookingValidator) ValidatePatch(p *PatchBookingPayload) (bookingDomain.Patch, error) {
	violations, err := v.structViolations(p)
	if err != nil {
		return bookingDomain.Patch{}, err
	}

	if p.Start != nil && p.End != nil && !datesInOrder(*p.Start, *p.End) {
		violations = append(violations, dateOrderViolation(*p.Start, *p.End))
	}

	if len(violations) > 0 {
		return bookingDomain.Patch{}, domain.NewValidationError(violations...)
	}

	patch := bookingDomain.Patch{
		PropertyID: p.PropertyID,
		PersonID:   p.PersonID,
		Canceled:   p.Canceled,
	}
	if p.Start != nil {
		start, _ := bookingDomain.ParseDate(*p.Start)
		patch.Start = &start
	}
	if p.End != nil {
		end, _ := bookingDomain.ParseDate(*p.End)
		patch.End = &end
	}
	return patch, nil
}

func (v *BookingValidator) structViolations(payload interface{}) ([]domain.Violation, error) {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate booking payload: %w", err)
	}

	violations := make([]domain.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, domain.Violation{
			ConstraintType: domain.ConstraintTypeParameter,
			Path:           bookingDomain.PathBooking + "." + fe.Field(),
			Message:        messageFor(fe),
			Value:          valueString(fe.Value()),
		})
	}
	return violations, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return messageRequired
	case "isodate":
		return messageInvalidDate
	default:
		return strings.TrimSpace(fe.Error())
	}
}

// datesInOrder reports whether end is strictly after start. Any failure while
// checking, including a panic, counts as out of order.
func datesInOrder(start, end string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	s, err := bookingDomain.ParseDate(start)
	if err != nil {
		return false
	}
	e, err := bookingDomain.ParseDate(end)
	if err != nil {
		return false
	}
	return e.After(s)
}

func dateOrderViolation(start, end string) domain.Violation {
	return domain.Violation{
		ConstraintType: domain.ConstraintTypeParameter,
		Path:           bookingDomain.PathBooking,
		Message:        bookingDomain.MessageDateOrder,
		Value:          bookingDomain.RangeValue(start, end),
	}
}

func valueString(v interface{}) string {
	if v == nil {
		return nullValue
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nullValue
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface())
}
