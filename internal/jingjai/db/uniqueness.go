package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/gartstein/jingjai/internal/jingjai/db/models"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Uniqueness scopes.
const (
	ScopeClientTaxID  = "client_tax_id"
	ScopeInventorySKU = "inventory_sku"
)

// LookupKey returns the index entry for key in scope, or errors.ErrNotFound.
func (r *Repository) LookupKey(ctx context.Context, scope, key string) (*dbmodels.UniqueKey, error) {
	normalized := validation.NormalizeKey(key)
	if normalized == "" {
		return nil, e.ErrNotFound
	}
	var entry dbmodels.UniqueKey
	err := r.db.WithContext(ctx).
		First(&entry, "scope = ? AND unique_key = ?", scope, normalized).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// Reindex moves ownerID's entry in scope from previousKey to key. It fails
// with errors.ErrAlreadyExists, before writing anything, when key belongs to
// another owner. Unchanged keys cause no writes and empty keys are never
// indexed. It must run in the transaction that writes the owning record.
func (r *Repository) Reindex(ctx context.Context, scope, key string, ownerID uuid.UUID, previousKey string) error {
	newKey := validation.NormalizeKey(key)
	oldKey := validation.NormalizeKey(previousKey)
	if newKey == oldKey {
		return nil
	}
	db := r.db.WithContext(ctx)

	if newKey != "" {
		var entry dbmodels.UniqueKey
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "scope = ? AND unique_key = ?", scope, newKey).Error
		switch {
		case err == nil && entry.OwnerID != ownerID:
			return fmt.Errorf("%s %q is already in use: %w", scope, newKey, e.ErrAlreadyExists)
		case err == nil:
			err = db.Model(&entry).Update("updated_at", time.Now()).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// A concurrent insert of the same key loses on the primary key.
			err = db.Create(&dbmodels.UniqueKey{
				Scope:     scope,
				Key:       newKey,
				OwnerID:   ownerID,
				UpdatedAt: time.Now(),
			}).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%s %q is already in use: %w", scope, newKey, e.ErrAlreadyExists)
			}
		}
		if err != nil {
			return fmt.Errorf("index %s %q: %w", scope, newKey, err)
		}
	}

	if oldKey != "" {
		if err := r.releaseNormalized(ctx, scope, oldKey, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseKey drops ownerID's entry for key in scope, if any.
func (r *Repository) ReleaseKey(ctx context.Context, scope, key string, ownerID uuid.UUID) error {
	normalized := validation.NormalizeKey(key)
	if normalized == "" {
		return nil
	}
	return r.releaseNormalized(ctx, scope, normalized, ownerID)
}

func (r *Repository) releaseNormalized(ctx context.Context, scope, key string, ownerID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("scope = ? AND unique_key = ? AND owner_id = ?", scope, key, ownerID).
		Delete(&dbmodels.UniqueKey{}).Error
	if err != nil {
		return fmt.Errorf("release %s %q: %w", scope, key, err)
	}
	return nil
}

// CountKeys returns the number of entries held in scope.
func (r *Repository) CountKeys(ctx context.Context, scope string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbmodels.UniqueKey{}).Where("scope = ?", scope).Count(&n).Error
	return n, err
}
