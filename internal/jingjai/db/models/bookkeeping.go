// Package models contains the bookkeeping tables the repository maintains
// next to the domain records: sequence counters and uniqueness keys.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Counter holds the last value handed out for one counted entity type.
// It is only read and written inside transactions.
type Counter struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     int64  `gorm:"column:last_value;not null"`
	UpdatedAt time.Time
}

// UniqueKey maps a normalized secondary key to the record owning it.
// One row exists per non-empty key in a scope.
type UniqueKey struct {
	Scope     string    `gorm:"primaryKey;size:32"`
	Key       string    `gorm:"column:unique_key;primaryKey;size:255"`
	OwnerID   uuid.UUID `gorm:"type:char(36);not null;index"`
	UpdatedAt time.Time
}
