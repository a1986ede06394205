package application

import (
	"context"
	"strconv"
	"time"

	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"github.com/host-booking/service-booking/internal/events"
	"go.uber.org/zap"
)

const eventSource = "service-booking"

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID         int64              `json:"id"`
	PropertyID int64              `json:"property_id"`
	PersonID   int64              `json:"person_id"`
	Start      bookingDomain.Date `json:"start"`
	End        bookingDomain.Date `json:"end"`
	Canceled   bool               `json:"canceled"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// BookingCache caches single bookings for reads. Implementations swallow their own failures.
// Set must not overwrite an existing entry, and after Invalidate a Set for the same id must
// not take effect for at least the cache TTL; a GET that read the datastore before a change
// committed would otherwise cache the old booking.
type BookingCache interface {
	Get(ctx context.Context, id int64) (*bookingDomain.Booking, bool)
	Set(ctx context.Context, bk *bookingDomain.Booking)
	Invalidate(ctx context.Context, id int64)
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.Repository
	tx        bookingDomain.Transactor
	publisher EventPublisher
	cache     BookingCache
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	tx bookingDomain.Transactor,
	publisher EventPublisher,
	cache BookingCache,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// CreateBooking stores a new booking unless it conflicts with an active booking
// of the same property. Conflicting creates on one property are serialized.
func (s *BookingService) CreateBooking(ctx context.Context, draft bookingDomain.Draft) (*BookingDTO, error) {
	bk, err := bookingDomain.NewBooking(draft)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		if err := repo.LockProperty(ctx, bk.PropertyID()); err != nil {
			return err
		}

		conflict, err := repo.FindOverlapping(ctx, bk.PropertyID(), bk.Range(), nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return bookingDomain.NewAlreadyBookedError(conflict, bk.Range())
		}

		return repo.Save(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("property_id", bk.PropertyID()),
		zap.Stringer("start", bk.Start()),
		zap.Stringer("end", bk.End()),
	)
	s.cache.Set(ctx, bk)
	s.publishChanged(ctx, events.BookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*BookingDTO, error) {
	if bk, ok := s.cache.Get(ctx, id); ok {
		result := toBookingDTO(bk)
		return &result, nil
	}

	bk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking applies a partial update. Fields absent from the patch keep their
// stored values. The merged booking must keep its dates in order and, unless it is
// canceled, must not conflict with another active booking of its property.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, patch bookingDomain.Patch) error {
	var updated *bookingDomain.Booking

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		merged := current.Merged(patch)
		if !merged.End().After(merged.Start()) {
			return bookingDomain.NewDateOrderError(merged.Start(), merged.End())
		}

		if err := repo.LockProperty(ctx, merged.PropertyID()); err != nil {
			return err
		}

		if !merged.Canceled() {
			conflict, err := repo.FindOverlapping(ctx, merged.PropertyID(), merged.Range(), &id)
			if err != nil {
				return err
			}
			if conflict != nil {
				return bookingDomain.NewAlreadyBookedError(conflict, merged.Range())
			}
		}

		if err := current.Apply(patch); err != nil {
			return err
		}
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("booking updated",
		zap.Int64("booking_id", id),
		zap.Int64("property_id", updated.PropertyID()),
		zap.Bool("canceled", updated.Canceled()),
	)
	s.publishChanged(ctx, events.BookingUpdated, updated)
	return nil
}

// RemoveBooking deletes a booking.
func (s *BookingService) RemoveBooking(ctx context.Context, id int64) error {
	var removed *bookingDomain.Booking

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		bk, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		removed = bk
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("booking removed", zap.Int64("booking_id", id))

	s.publishEvent(ctx, events.BookingDeleted, id, events.BookingDeletedEvent{
		BookingID:  removed.ID(),
		PropertyID: removed.PropertyID(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:         bk.ID(),
		PropertyID: bk.PropertyID(),
		PersonID:   bk.PersonID(),
		Start:      bk.Start(),
		End:        bk.End(),
		Canceled:   bk.Canceled(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func (s *BookingService) publishChanged(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	s.publishEvent(ctx, eventType, bk.ID(), events.BookingChangedEvent{
		BookingID:  bk.ID(),
		PropertyID: bk.PropertyID(),
		PersonID:   bk.PersonID(),
		Start:      bk.Start().String(),
		End:        bk.End().String(),
		Canceled:   bk.Canceled(),
		OccurredAt: time.Now().UTC(),
	})
}

// publishEvent never fails the request: the booking is already committed.
func (s *BookingService) publishEvent(ctx context.Context, eventType string, bookingID int64, data interface{}) {
	cloudEvent, err := events.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	key := strconv.FormatInt(bookingID, 10)
	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
