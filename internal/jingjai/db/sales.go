package db

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return createRecord(ctx, r.db, sale)
}

func (r *Repository) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return getRecord[models.Sale](ctx, r.db, id, false)
}

func (r *Repository) SaveSale(ctx context.Context, sale *models.Sale) error {
	return saveRecord(ctx, r.db, sale)
}

func (r *Repository) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.Sale](ctx, r.db, id)
}

// ListSales returns deals, most recently updated first. A non-empty stage
// filters the pipeline column.
func (r *Repository) ListSales(ctx context.Context, stage models.SaleStage) ([]models.Sale, error) {
	var sales []models.Sale
	q := r.db.WithContext(ctx).Order("updated_at DESC")
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	err := q.Find(&sales).Error
	return sales, err
}
