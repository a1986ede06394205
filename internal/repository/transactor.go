package repository

import (
	"context"
	"fmt"

	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"gorm.io/gorm"
)

// GormTransactor opens a database transaction per unit of work.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn against a repository bound to a fresh transaction.
// The transaction is rolled back unless fn returns nil and the commit succeeds.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo bookingDomain.Repository) error) error {
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		tx.Rollback()
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	if err := fn(ctx, &GormBookingRepository{db: tx, lockRows: true}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
