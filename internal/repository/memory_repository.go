package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/host-booking/service-booking/internal/domain"
	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
)

// MemoryStore keeps bookings in process memory. It serves both as the repository
// for reads and as the transactor for writes; units of work run one at a time and
// only their successful outcome becomes visible.
type MemoryStore struct {
	mu     sync.Mutex
	rows   map[int64]*bookingDomain.Booking
	nextID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]*bookingDomain.Booking)}
}

// WithinTransaction runs fn on a private copy of the store and publishes it when fn succeeds.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo bookingDomain.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := &memoryRepository{rows: cloneRows(s.rows), nextID: s.nextID}
	if err := fn(ctx, work); err != nil {
		return err
	}
	s.rows = work.rows
	s.nextID = work.nextID
	return nil
}

// FindByID retrieves a committed booking.
func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindByID(ctx, id)
}

// FindOverlapping searches committed bookings.
func (s *MemoryStore) FindOverlapping(ctx context.Context, propertyID int64, rng bookingDomain.DateRange, excludeID *int64) (*bookingDomain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().FindOverlapping(ctx, propertyID, rng, excludeID)
}

// Save stores a new booking outside any unit of work.
func (s *MemoryStore) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return s.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		return repo.Save(ctx, bk)
	})
}

// Update stores changes outside any unit of work.
func (s *MemoryStore) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return s.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		return repo.Update(ctx, bk)
	})
}

// Delete removes a booking outside any unit of work.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	return s.WithinTransaction(ctx, func(ctx context.Context, repo bookingDomain.Repository) error {
		return repo.Delete(ctx, id)
	})
}

// LockProperty is a no-op: units of work are already serialized.
func (s *MemoryStore) LockProperty(context.Context, int64) error {
	return nil
}

func (s *MemoryStore) view() *memoryRepository {
	return &memoryRepository{rows: s.rows, nextID: s.nextID}
}

// memoryRepository is the repository handed to a unit of work.
type memoryRepository struct {
	rows   map[int64]*bookingDomain.Booking
	nextID int64
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	bk, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError(strconv.FormatInt(id, 10))
	}
	return copyBooking(bk), nil
}

func (r *memoryRepository) FindOverlapping(_ context.Context, propertyID int64, rng bookingDomain.DateRange, excludeID *int64) (*bookingDomain.Booking, error) {
	conflict := bookingDomain.FindConflict(r.sorted(), propertyID, rng, excludeID)
	if conflict == nil {
		return nil, nil
	}
	return copyBooking(conflict), nil
}

func (r *memoryRepository) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.nextID++
	bk.AssignID(r.nextID)
	r.rows[bk.ID()] = copyBooking(bk)
	return nil
}

func (r *memoryRepository) Update(_ context.Context, bk *bookingDomain.Booking) error {
	if _, ok := r.rows[bk.ID()]; !ok {
		return domain.NewNotFoundError(strconv.FormatInt(bk.ID(), 10))
	}
	r.rows[bk.ID()] = copyBooking(bk)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.NewNotFoundError(strconv.FormatInt(id, 10))
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepository) LockProperty(context.Context, int64) error {
	return nil
}

// sorted returns the rows ordered by id so the first conflict matches the SQL repository.
func (r *memoryRepository) sorted() []*bookingDomain.Booking {
	out := make([]*bookingDomain.Booking, 0, len(r.rows))
	for _, bk := range r.rows {
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func cloneRows(rows map[int64]*bookingDomain.Booking) map[int64]*bookingDomain.Booking {
	out := make(map[int64]*bookingDomain.Booking, len(rows))
	for id, bk := range rows {
		out[id] = bk
	}
	return out
}

func copyBooking(bk *bookingDomain.Booking) *bookingDomain.Booking {
	c := *bk
	return &c
}
