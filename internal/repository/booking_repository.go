package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/host-booking/service-booking/internal/domain"
	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// overlapCondition mirrors bookingDomain.Overlaps for an existing row [start_date, end_date)
// and a candidate [s, e). Placeholders are s, s, e, e, s, e.
const overlapCondition = "((start_date < ? AND end_date > ?) OR (start_date < ? AND end_date > ?) OR (start_date > ? AND end_date < ?))"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PropertyID int64     `gorm:"not null;index:idx_bookings_property_dates"`
	PersonID   int64     `gorm:"not null"`
	StartDate  time.Time `gorm:"type:date;not null;index:idx_bookings_property_dates"`
	EndDate    time.Time `gorm:"type:date;not null;index:idx_bookings_property_dates"`
	Canceled   bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of bookingDomain.Repository.
type GormBookingRepository struct {
	db *gorm.DB
	// lockRows makes FindByID take a row lock; set for repositories bound to a transaction.
	lockRows bool
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model BookingModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindOverlapping returns the lowest-id active booking of the property conflicting with rng.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, propertyID int64, rng bookingDomain.DateRange, excludeID *int64) (*bookingDomain.Booking, error) {
	s, e := rng.Start.String(), rng.End.String()

	q := r.db.WithContext(ctx).
		Where("property_id = ? AND canceled = ?", propertyID, false).
		Where(overlapCondition, s, s, e, e, s, e)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var model BookingModel
	if err := q.Order("id").Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find overlapping booking: %w", err)
	}
	return toDomainBooking(&model), nil
}

// Save persists a new booking and assigns the generated identifier.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"property_id": model.PropertyID,
			"person_id":   model.PersonID,
			"start_date":  model.StartDate,
			"end_date":    model.EndDate,
			"canceled":    model.Canceled,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(strconv.FormatInt(model.ID, 10))
	}

	return nil
}

// Delete removes a booking by identifier.
func (r *GormBookingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(strconv.FormatInt(id, 10))
	}
	return nil
}

// LockProperty takes a transaction-scoped advisory lock keyed by the property id.
// Outside a transaction the lock is released as soon as the statement finishes.
func (r *GormBookingRepository) LockProperty(ctx context.Context, propertyID int64) error {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", propertyID).Error; err != nil {
		return fmt.Errorf("failed to lock property %d: %w", propertyID, err)
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:         bk.ID(),
		PropertyID: bk.PropertyID(),
		PersonID:   bk.PersonID(),
		StartDate:  bk.Start().Time(),
		EndDate:    bk.End().Time(),
		Canceled:   bk.Canceled(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.PropertyID,
		m.PersonID,
		bookingDomain.DateOf(m.StartDate),
		bookingDomain.DateOf(m.EndDate),
		m.Canceled,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
