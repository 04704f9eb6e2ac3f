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

// ClientService manages client records, their sequential client IDs and
// the tax ID uniqueness index.
type ClientService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewClientService(repo Repository, producer EventProducer, logger *zap.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("client_service"),
	}
}

// UpsertClient creates a client when id is nil and merges patch into the
// stored client otherwise. A new client gets the next CL-<n> identifier.
// Allocation, tax ID indexing and the record write commit together.
func (s *ClientService) UpsertClient(ctx context.Context, actor string, id *uuid.UUID, patch *models.ClientPatch) (*models.Client, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = &models.ClientPatch{}
	}
	validation.SanitizeClient(patch)

	var client *models.Client
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current := &models.Client{}
		previousTaxID := ""
		if id != nil {
			var err error
			if current, err = tx.GetClientForUpdate(ctx, *id); err != nil {
				return err
			}
			previousTaxID = current.TaxID
		}

		merged := *current
		patch.ApplyTo(&merged)
		if err := validation.CheckVAT(&merged); err != nil {
			return err
		}
		if err := validation.Client(&merged).Err(); err != nil {
			return err
		}

		ts := now()
		if id == nil {
			merged.ID = uuid.New()
			n, err := tx.NextSequence(ctx, db.CounterClient)
			if err != nil {
				return fmt.Errorf("allocate client id: %w", err)
			}
			merged.ClientID = fmt.Sprintf("%s-%d", models.ClientIDPrefix, n)
			merged.Stamp(actor, ts)
		} else {
			merged.Touch(actor, ts)
		}

		if err := tx.Reindex(ctx, db.ScopeClientTaxID, merged.TaxID, merged.ID, previousTaxID); err != nil {
			return err
		}

		if id == nil {
			if err := tx.CreateClient(ctx, &merged); err != nil {
				return err
			}
		} else if err := tx.SaveClient(ctx, &merged); err != nil {
			return err
		}
		client = &merged
		return nil
	})
	if err != nil {
		return nil, logInternal(s.logger, "Failed to upsert client", err, idField("client_id", id))
	}

	eventType := events.ClientUpdated
	if id == nil {
		eventType = events.ClientCreated
	}
	publish(s.producer, eventType, client.ID, actor, client)
	return client, nil
}

// DeleteClient removes the client and frees its tax ID.
func (s *ClientService) DeleteClient(ctx context.Context, actor string, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	var deleted *models.Client
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		client, err := tx.GetClientForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteClient(ctx, id); err != nil {
			return err
		}
		if err := tx.ReleaseKey(ctx, db.ScopeClientTaxID, client.TaxID, id); err != nil {
			return err
		}
		deleted = client
		return nil
	})
	if err != nil {
		return logInternal(s.logger, "Failed to delete client", err, idField("client_id", &id))
	}
	publish(s.producer, events.ClientDeleted, id, actor, deleted)
	return nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListClients returns every client ordered by client ID.
func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
