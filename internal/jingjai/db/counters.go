package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/gartstein/jingjai/internal/jingjai/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterBase is the value a counter holds before its first allocation.
const CounterBase int64 = 100000

// CounterClient is the counter behind client identifiers.
const CounterClient = "client"

// NextSequence increments the named counter and returns the new value. It
// must run inside the transaction that also writes the record using the
// value, so a rollback returns the number to the pool.
func (r *Repository) NextSequence(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)
	now := time.Now()

	seed := dbmodels.Counter{Name: name, Value: CounterBase, UpdatedAt: now}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("seed counter %q: %w", name, err)
	}

	// The row lock taken by this update is held until commit, which
	// serializes concurrent allocations on the same counter.
	result := db.Model(&dbmodels.Counter{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"last_value": gorm.Expr("last_value + ?", 1),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("increment counter %q: %w", name, result.Error)
	}

	var counter dbmodels.Counter
	if err := db.First(&counter, "name = ?", name).Error; err != nil {
		return 0, fmt.Errorf("read counter %q: %w", name, err)
	}
	return counter.Value, nil
}

// CurrentSequence returns the last allocated value without changing it.
func (r *Repository) CurrentSequence(ctx context.Context, name string) (int64, error) {
	var counter dbmodels.Counter
	err := r.db.WithContext(ctx).First(&counter, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CounterBase, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
