package booking

import (
	"fmt"
	"time"

	"github.com/host-booking/service-booking/internal/domain"
)

// Violation paths and messages shared by the validation layer and the aggregate.
const (
	PathBooking          = "create.booking"
	MessageDateOrder     = "start date greater than end date"
	MessageAlreadyBooked = "Property already booked for specified date range"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id         int64
	propertyID int64
	personID   int64
	start      Date
	end        Date
	canceled   bool

	createdAt time.Time
	updatedAt time.Time
}

// Draft holds the validated fields of a booking that has not been stored yet.
type Draft struct {
	PropertyID int64
	PersonID   int64
	Start      Date
	End        Date
	Canceled   bool
}

// NewBooking creates a new Booking aggregate. The id is assigned once the booking is stored.
func NewBooking(d Draft) (*Booking, error) {
	if !d.End.After(d.Start) {
		return nil, NewDateOrderError(d.Start, d.End)
	}

	now := time.Now().UTC()
	return &Booking{
		propertyID: d.PropertyID,
		personID:   d.PersonID,
		start:      d.Start,
		end:        d.End,
		canceled:   d.Canceled,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	propertyID int64,
	personID int64,
	start Date,
	end Date,
	canceled bool,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		propertyID: propertyID,
		personID:   personID,
		start:      start,
		end:        end,
		canceled:   canceled,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

// ID returns the datastore-assigned identifier, or zero before the booking is stored.
func (b *Booking) ID() int64 { return b.id }

// PropertyID returns the booked property.
func (b *Booking) PropertyID() int64 { return b.propertyID }

// PersonID returns the guest.
func (b *Booking) PersonID() int64 { return b.personID }

// Start returns the first booked day.
func (b *Booking) Start() Date { return b.start }

// End returns the day after the last booked night.
func (b *Booking) End() Date { return b.end }

// Range returns the booked period.
func (b *Booking) Range() DateRange { return DateRange{Start: b.start, End: b.end} }

// Canceled reports whether the booking is excluded from overlap checks.
func (b *Booking) Canceled() bool { return b.canceled }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignID records the identifier chosen by the datastore. It has no effect once set.
func (b *Booking) AssignID(id int64) {
	if b.id == 0 {
		b.id = id
	}
}

// Merged returns a copy of the booking with every field present in p applied.
// The receiver is left untouched.
func (b *Booking) Merged(p Patch) *Booking {
	merged := *b
	merged.apply(p)
	return &merged
}

// Apply overwrites the fields present in p and bumps the update timestamp.
// Absent fields keep their stored values.
func (b *Booking) Apply(p Patch) error {
	merged := b.Merged(p)
	if !merged.end.After(merged.start) {
		return NewDateOrderError(merged.start, merged.end)
	}
	b.apply(p)
	b.updatedAt = time.Now().UTC()
	return nil
}

func (b *Booking) apply(p Patch) {
	if p.PropertyID != nil {
		b.propertyID = *p.PropertyID
	}
	if p.PersonID != nil {
		b.personID = *p.PersonID
	}
	if p.Start != nil {
		b.start = *p.Start
	}
	if p.End != nil {
		b.end = *p.End
	}
	if p.Canceled != nil {
		b.canceled = *p.Canceled
	}
}

// NewDateOrderError reports a range whose end is not after its start.
func NewDateOrderError(start, end Date) *domain.ValidationError {
	return domain.NewValidationError(domain.Violation{
		ConstraintType: domain.ConstraintTypeParameter,
		Path:           PathBooking,
		Message:        MessageDateOrder,
		Value:          RangeValue(start.String(), end.String()),
	})
}

// RangeValue renders a start/end pair for the value of a date order violation.
func RangeValue(start, end string) string {
	return fmt.Sprintf("start=%s, end=%s", start, end)
}
