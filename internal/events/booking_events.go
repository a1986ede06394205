package events

import "time"

// TopicBookingEvents carries every booking lifecycle event.
const TopicBookingEvents = "booking.events"

// Booking event types.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// BookingChangedEvent is published after a booking is created or updated.
type BookingChangedEvent struct {
	BookingID  int64     `json:"booking_id"`
	PropertyID int64     `json:"property_id"`
	PersonID   int64     `json:"person_id"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Canceled   bool      `json:"canceled"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDeletedEvent is published after a booking is deleted.
type BookingDeletedEvent struct {
	BookingID  int64     `json:"booking_id"`
	PropertyID int64     `json:"property_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
