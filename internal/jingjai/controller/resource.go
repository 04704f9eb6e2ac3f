package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/db"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	defaultResourceCacheTTL = 5 * time.Minute
	resourceListKey         = "resources"
)

// ResourceService manages bookable resources. The resource list is read
// far more often than it changes and is cached in memory.
type ResourceService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
	cache    *gocache.Cache
}

func NewResourceService(repo Repository, producer EventProducer, logger *zap.Logger, ttl time.Duration) *ResourceService {
	if ttl <= 0 {
		ttl = defaultResourceCacheTTL
	}
	return &ResourceService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("resource_service"),
		cache:    gocache.New(ttl, 2*ttl),
	}
}

func (s *ResourceService) UpsertResource(ctx context.Context, actor string, id *uuid.UUID, patch *models.ResourcePatch) (*models.Resource, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = &models.ResourcePatch{}
	}
	validation.SanitizeResource(patch)

	var resource *models.Resource
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current := &models.Resource{}
		if id != nil {
			var err error
			if current, err = tx.LockResource(ctx, *id); err != nil {
				return err
			}
		}

		merged := *current
		patch.ApplyTo(&merged)
		if err := validation.Resource(&merged).Err(); err != nil {
			return err
		}

		ts := now()
		if id == nil {
			merged.ID = uuid.New()
			merged.Stamp(actor, ts)
			if err := tx.CreateResource(ctx, &merged); err != nil {
				return err
			}
		} else {
			merged.Touch(actor, ts)
			if err := tx.SaveResource(ctx, &merged); err != nil {
				return err
			}
		}
		resource = &merged
		return nil
	})
	if err != nil {
		return nil, logInternal(s.logger, "Failed to upsert resource", err, idField("resource_id", id))
	}
	s.cache.Delete(resourceListKey)

	eventType := events.ResourceUpdated
	if id == nil {
		eventType = events.ResourceCreated
	}
	publish(s.producer, eventType, resource.ID, actor, resource)
	return resource, nil
}

// DeleteResource removes a resource that holds no active bookings. Busy
// resources should be archived instead.
func (s *ResourceService) DeleteResource(ctx context.Context, actor string, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if _, err := tx.LockResource(ctx, id); err != nil {
			return err
		}
		active, err := tx.ActiveBookingsForResource(ctx, id)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return fmt.Errorf("%w: resource has %d active bookings, archive it instead", e.ErrFailedPrecondition, len(active))
		}
		return tx.DeleteResource(ctx, id)
	})
	if err != nil {
		return logInternal(s.logger, "Failed to delete resource", err, idField("resource_id", &id))
	}
	s.cache.Delete(resourceListKey)
	publish(s.producer, events.ResourceDeleted, id, actor, nil)
	return nil
}

func (s *ResourceService) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return resource, nil
}

// ListResources returns all resources ordered by name.
func (s *ResourceService) ListResources(ctx context.Context) ([]models.Resource, error) {
	if x, found := s.cache.Get(resourceListKey); found {
		if resources, ok := x.([]models.Resource); ok {
			return resources, nil
		}
	}
	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	s.cache.Set(resourceListKey, resources, gocache.DefaultExpiration)
	return resources, nil
}
