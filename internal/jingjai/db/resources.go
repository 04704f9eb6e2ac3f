package db

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateResource(ctx context.Context, resource *models.Resource) error {
	return createRecord(ctx, r.db, resource)
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	return getRecord[models.Resource](ctx, r.db, id, false)
}

// LockResource loads a resource and locks its row for the rest of the
// transaction. Booking writes take this lock to serialize per resource.
func (r *Repository) LockResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	return getRecord[models.Resource](ctx, r.db, id, true)
}

func (r *Repository) SaveResource(ctx context.Context, resource *models.Resource) error {
	return saveRecord(ctx, r.db, resource)
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.Resource](ctx, r.db, id)
}

func (r *Repository) ListResources(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	err := r.db.WithContext(ctx).Order("name").Find(&resources).Error
	return resources, err
}
