package db

import (
	"context"
	"fmt"
	"time"

	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
)

func (r *Repository) CreateItem(ctx context.Context, item *models.Item) error {
	return createRecord(ctx, r.db, item)
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return getRecord[models.Item](ctx, r.db, id, false)
}

func (r *Repository) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return getRecord[models.Item](ctx, r.db, id, true)
}

func (r *Repository) SaveItem(ctx context.Context, item *models.Item) error {
	return saveRecord(ctx, r.db, item)
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.Item](ctx, r.db, id)
}

func (r *Repository) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

// AdjustQuantity adds delta to the item's quantity with a read-modify-write
// on the locked row and returns the new quantity. With allowNegative unset,
// a result below zero fails with errors.ErrFailedPrecondition.
func (r *Repository) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int64, actor string, allowNegative bool) (int64, error) {
	item, err := r.GetItemForUpdate(ctx, itemID)
	if err != nil {
		return 0, err
	}

	next := item.Quantity + delta
	if (delta > 0 && next < item.Quantity) || (delta < 0 && next > item.Quantity) {
		return 0, validation.Violations{"delta": "out of range"}
	}
	if next < 0 && !allowNegative {
		return 0, fmt.Errorf("%w: quantity of %s would drop to %d", e.ErrFailedPrecondition, itemID, next)
	}

	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   next,
			"updated_at": time.Now(),
			"updated_by": actor,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, e.ErrNotFound
	}
	return next, nil
}

// AppendAdjustment records an entry in the adjustment log. The log has no
// update or delete counterpart.
func (r *Repository) AppendAdjustment(ctx context.Context, adj *models.Adjustment) error {
	if adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now()
	}
	return createRecord(ctx, r.db, adj)
}

// ListAdjustments returns the log of one item, oldest first.
func (r *Repository) ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error) {
	var adjustments []models.Adjustment
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at").
		Find(&adjustments).Error
	return adjustments, err
}
