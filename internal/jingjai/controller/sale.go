package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/jingjai/internal/jingjai/db"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService manages the sales pipeline.
type SaleService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewSaleService(repo Repository, producer EventProducer, logger *zap.Logger) *SaleService {
	return &SaleService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("sale_service"),
	}
}

// UpsertSale creates or updates a sale. A client reference must point at
// an existing client.
func (s *SaleService) UpsertSale(ctx context.Context, actor string, id *uuid.UUID, patch *models.SalePatch) (*models.Sale, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = &models.SalePatch{}
	}
	validation.SanitizeSale(patch)

	var sale *models.Sale
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current := &models.Sale{}
		if id != nil {
			var err error
			if current, err = tx.GetSale(ctx, *id); err != nil {
				return err
			}
		}

		merged := *current
		v := validation.ApplySale(&merged, patch)
		v.Merge(validation.Sale(&merged))
		if err := checkClientRef(ctx, tx, merged.ClientRef, v); err != nil {
			return err
		}
		if err := v.Err(); err != nil {
			return err
		}

		ts := now()
		if id == nil {
			merged.ID = uuid.New()
			merged.Stamp(actor, ts)
			if err := tx.CreateSale(ctx, &merged); err != nil {
				return err
			}
		} else {
			merged.Touch(actor, ts)
			if err := tx.SaveSale(ctx, &merged); err != nil {
				return err
			}
		}
		sale = &merged
		return nil
	})
	if err != nil {
		return nil, logInternal(s.logger, "Failed to upsert sale", err, idField("sale_id", id))
	}

	eventType := events.SaleUpdated
	if id == nil {
		eventType = events.SaleCreated
	}
	publish(s.producer, eventType, sale.ID, actor, sale)
	return sale, nil
}

func (s *SaleService) DeleteSale(ctx context.Context, actor string, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteSale(ctx, id)
	})
	if err != nil {
		return logInternal(s.logger, "Failed to delete sale", err, idField("sale_id", &id))
	}
	publish(s.producer, events.SaleDeleted, id, actor, nil)
	return nil
}

func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

// ListSales returns sales, most recently updated first. A non-empty stage
// filters by pipeline stage; aliases are accepted.
func (s *SaleService) ListSales(ctx context.Context, stage string) ([]models.Sale, error) {
	filter := models.SaleStage(stage)
	if stage != "" {
		patch := &models.SalePatch{Stage: &filter}
		validation.SanitizeSale(patch)
		v := validation.Violations{}
		validation.OneOf("stage", &filter, models.SaleStages, "", v)
		if err := v.Err(); err != nil {
			return nil, err
		}
	}
	sales, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
