package db

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	return createRecord(ctx, r.db, client)
}

func (r *Repository) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return getRecord[models.Client](ctx, r.db, id, false)
}

// GetClientForUpdate loads a client and, on databases that support it,
// locks its row until the transaction ends.
func (r *Repository) GetClientForUpdate(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return getRecord[models.Client](ctx, r.db, id, true)
}

func (r *Repository) SaveClient(ctx context.Context, client *models.Client) error {
	return saveRecord(ctx, r.db, client)
}

func (r *Repository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.Client](ctx, r.db, id)
}

// ListClients returns every client ordered by their sequential identifier.
// Shorter identifiers sort first so CL-1000000 follows CL-999999.
func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).Order("LENGTH(client_id), client_id").Find(&clients).Error
	return clients, err
}

func (r *Repository) ClientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
