package booking

import "context"

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its identifier. A missing booking yields a *domain.NotFoundError.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindOverlapping returns the first active booking of the property whose range conflicts
	// with r (see Overlaps), ignoring excludeID when set. It returns nil, nil when none exists.
	FindOverlapping(ctx context.Context, propertyID int64, r DateRange, excludeID *int64) (*Booking, error)

	// Save persists a new booking and assigns its identifier.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking. A missing booking yields a *domain.NotFoundError.
	Delete(ctx context.Context, id int64) error

	// LockProperty serializes writers of the same property until the surrounding
	// transaction ends.
	LockProperty(ctx context.Context, propertyID int64) error
}

// Transactor runs a unit of work inside a transaction boundary. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
