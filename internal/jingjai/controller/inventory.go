package controller

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gartstein/jingjai/internal/jingjai/db"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxReasonLength = 500

// InventoryService manages inventory items, SKU uniqueness and the
// quantity ledger.
type InventoryService struct {
	repo          Repository
	producer      EventProducer
	logger        *zap.Logger
	allowNegative bool
}

func NewInventoryService(repo Repository, producer EventProducer, logger *zap.Logger, allowNegative bool) *InventoryService {
	return &InventoryService{
		repo:          repo,
		producer:      producer,
		logger:        logger.Named("inventory_service"),
		allowNegative: allowNegative,
	}
}

// UpsertItem creates an item when id is nil, otherwise merges patch into
// the stored one. The SKU is kept unique through the uniqueness index.
func (s *InventoryService) UpsertItem(ctx context.Context, actor string, id *uuid.UUID, patch *models.ItemPatch) (*models.Item, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = &models.ItemPatch{}
	}
	validation.SanitizeItem(patch)

	var item *models.Item
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current := &models.Item{}
		previousSKU := ""
		if id != nil {
			var err error
			if current, err = tx.GetItemForUpdate(ctx, *id); err != nil {
				return err
			}
			previousSKU = current.SKU
		}

		merged := *current
		patch.ApplyTo(&merged)
		if err := validation.Item(&merged).Err(); err != nil {
			return err
		}

		ts := now()
		if id == nil {
			merged.ID = uuid.New()
			merged.Stamp(actor, ts)
		} else {
			merged.Touch(actor, ts)
		}
		if err := tx.Reindex(ctx, db.ScopeInventorySKU, merged.SKU, merged.ID, previousSKU); err != nil {
			return err
		}
		if id == nil {
			if err := tx.CreateItem(ctx, &merged); err != nil {
				return err
			}
		} else if err := tx.SaveItem(ctx, &merged); err != nil {
			return err
		}
		item = &merged
		return nil
	})
	if err != nil {
		return nil, logInternal(s.logger, "Failed to upsert inventory item", err, idField("item_id", id))
	}

	eventType := events.ItemUpdated
	if id == nil {
		eventType = events.ItemCreated
	}
	publish(s.producer, eventType, item.ID, actor, item)
	return item, nil
}

// DeleteItem removes the item and frees its SKU. Its adjustment log stays.
func (s *InventoryService) DeleteItem(ctx context.Context, actor string, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	var deleted *models.Item
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		item, err := tx.GetItemForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteItem(ctx, id); err != nil {
			return err
		}
		if err := tx.ReleaseKey(ctx, db.ScopeInventorySKU, item.SKU, id); err != nil {
			return err
		}
		deleted = item
		return nil
	})
	if err != nil {
		return logInternal(s.logger, "Failed to delete inventory item", err, idField("item_id", &id))
	}
	publish(s.producer, events.ItemDeleted, id, actor, deleted)
	return nil
}

// AdjustQuantity adds delta to the item's quantity and records the change
// in the adjustment log. Fractional deltas are truncated toward zero. A
// missing, zero or non-finite delta changes nothing and reports applied as
// false along with the current quantity.
func (s *InventoryService) AdjustQuantity(ctx context.Context, actor string, itemID uuid.UUID, delta *float64, reason string) (quantity int64, applied bool, err error) {
	if err := requireActor(actor); err != nil {
		return 0, false, err
	}
	if delta == nil || math.IsNaN(*delta) || math.IsInf(*delta, 0) || math.Trunc(*delta) == 0 {
		item, err := s.GetItem(ctx, itemID)
		if err != nil {
			return 0, false, err
		}
		return item.Quantity, false, nil
	}

	v := validation.Violations{}
	if math.Abs(*delta) >= math.MaxInt64 {
		v["delta"] = "out of range"
	}
	validation.MaxLength("reason", reason, maxReasonLength, v)
	if err := v.Err(); err != nil {
		return 0, false, err
	}
	step := int64(math.Trunc(*delta))

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		quantity, err = tx.AdjustQuantity(ctx, itemID, step, actor, s.allowNegative)
		return err
	})
	if err != nil {
		return 0, false, logInternal(s.logger, "Failed to adjust quantity", err, idField("item_id", &itemID))
	}

	adj := &models.Adjustment{
		ItemID:        itemID,
		Delta:         step,
		QuantityAfter: quantity,
		Reason:        reason,
		Actor:         actor,
		CreatedAt:     now(),
	}
	// The log trails the quantity; a lost entry does not undo the adjustment.
	if err := s.repo.AppendAdjustment(ctx, adj); err != nil {
		s.logger.Error("Failed to append adjustment",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
			zap.Int64("delta", step),
		)
	}
	publish(s.producer, events.ItemAdjusted, itemID, actor, adj)
	return quantity, true, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// ListAdjustments returns the adjustment log of an item, oldest first.
func (s *InventoryService) ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error) {
	adjustments, err := s.repo.ListAdjustments(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return adjustments, nil
}
