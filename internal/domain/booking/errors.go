package booking

// AlreadyBookedError reports a candidate range that conflicts with an active booking
// of the same property.
type AlreadyBookedError struct {
	Booked    DateRange
	Attempted DateRange
}

// NewAlreadyBookedError creates an AlreadyBookedError from the conflicting booking
// and the range that was tried.
func NewAlreadyBookedError(booked *Booking, attempted DateRange) *AlreadyBookedError {
	return &AlreadyBookedError{
		Booked:    booked.Range(),
		Attempted: attempted,
	}
}

func (e *AlreadyBookedError) Error() string {
	return MessageAlreadyBooked
}
