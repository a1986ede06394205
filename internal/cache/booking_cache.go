package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "booking"
	// tombstone marks a recently changed booking so a fill racing the change cannot restore it.
	tombstone = "-"
)

// snapshot is the cached representation of a booking.
type snapshot struct {
	ID         int64              `json:"id"`
	PropertyID int64              `json:"property_id"`
	PersonID   int64              `json:"person_id"`
	Start      bookingDomain.Date `json:"start"`
	End        bookingDomain.Date `json:"end"`
	Canceled   bool               `json:"canceled"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// RedisBookingCache is a read-through cache of single bookings backed by Redis.
// Cache failures are logged and treated as misses.
//
// Set only fills an empty key and Invalidate leaves a tombstone for one TTL, so a
// reader that loaded a booking before it was changed cannot cache the old version.
type RedisBookingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisBookingCache creates a RedisBookingCache. A non-positive ttl defaults to five minutes.
func NewRedisBookingCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisBookingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisBookingCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached booking, if any.
func (c *RedisBookingCache) Get(ctx context.Context, id int64) (*bookingDomain.Booking, bool) {
	data, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("booking cache read failed", zap.Int64("booking_id", id), zap.Error(err))
		}
		return nil, false
	}
	if string(data) == tombstone {
		return nil, false
	}

	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.Warn("discarding unreadable cache entry", zap.Int64("booking_id", id), zap.Error(err))
		_ = c.rdb.Del(ctx, key(id)).Err()
		return nil, false
	}

	return bookingDomain.ReconstructBooking(
		s.ID, s.PropertyID, s.PersonID, s.Start, s.End, s.Canceled, s.CreatedAt, s.UpdatedAt,
	), true
}

// Set stores the booking for the configured TTL unless the key already holds an
// entry or a tombstone.
func (c *RedisBookingCache) Set(ctx context.Context, bk *bookingDomain.Booking) {
	data, err := json.Marshal(snapshot{
		ID:         bk.ID(),
		PropertyID: bk.PropertyID(),
		PersonID:   bk.PersonID(),
		Start:      bk.Start(),
		End:        bk.End(),
		Canceled:   bk.Canceled(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	})
	if err != nil {
		c.logger.Warn("failed to encode booking for cache", zap.Int64("booking_id", bk.ID()), zap.Error(err))
		return
	}

	if err := c.rdb.SetNX(ctx, key(bk.ID()), data, c.ttl).Err(); err != nil {
		c.logger.Warn("booking cache write failed", zap.Int64("booking_id", bk.ID()), zap.Error(err))
	}
}

// Invalidate replaces the cached booking with a tombstone that blocks fills for one TTL.
func (c *RedisBookingCache) Invalidate(ctx context.Context, id int64) {
	if err := c.rdb.Set(ctx, key(id), tombstone, c.ttl).Err(); err != nil {
		c.logger.Warn("booking cache invalidation failed", zap.Int64("booking_id", id), zap.Error(err))
	}
}

func key(id int64) string {
	return fmt.Sprintf("%s:%d", keyPrefix, id)
}

// NoopBookingCache never stores anything. It is used when Redis is not configured.
type NoopBookingCache struct{}

// Get always misses.
func (NoopBookingCache) Get(context.Context, int64) (*bookingDomain.Booking, bool) { return nil, false }

// Set does nothing.
func (NoopBookingCache) Set(context.Context, *bookingDomain.Booking) {}

// Invalidate does nothing.
func (NoopBookingCache) Invalidate(context.Context, int64) {}
