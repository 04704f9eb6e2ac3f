// Package controller implements the service layer: it validates input,
// runs each mutation in one repository transaction and publishes change
// events after commit.
package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/db"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository is the storage used outside transactions. Every mutation goes
// through WithTransaction and works on the transactional repository.
type Repository interface {
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	AppendAdjustment(ctx context.Context, adj *models.Adjustment) error
	ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, stage models.SaleStage) ([]models.Sale, error)
	GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	ListResources(ctx context.Context) ([]models.Resource, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Options tune service behavior that is left to deployment.
type Options struct {
	// AllowNegativeStock lets inventory adjustments take a quantity below zero.
	AllowNegativeStock bool
	// Location interprets booking timestamps that carry no offset.
	Location *time.Location
	// ResourceCacheTTL bounds how long the resource list is served from memory.
	ResourceCacheTTL time.Duration
}

// Services bundles the services the transport layer dispatches to.
type Services struct {
	Clients   *ClientService
	Inventory *InventoryService
	Sales     *SaleService
	Resources *ResourceService
	Bookings  *BookingService
}

func NewServices(repo Repository, producer EventProducer, logger *zap.Logger, opts Options) *Services {
	return &Services{
		Clients:   NewClientService(repo, producer, logger),
		Inventory: NewInventoryService(repo, producer, logger, opts.AllowNegativeStock),
		Sales:     NewSaleService(repo, producer, logger),
		Resources: NewResourceService(repo, producer, logger, opts.ResourceCacheTTL),
		Bookings:  NewBookingService(repo, producer, logger, opts.Location),
	}
}

// publish hands the event to the producer off the request path.
func publish(producer EventProducer, eventType events.EventType, id uuid.UUID, actor string, payload interface{}) {
	event := events.New(eventType, id, actor, payload)
	go func() {
		producer.Produce(event)
	}()
}

// logInternal logs errors that carry no caller-facing kind. err is
// returned unchanged.
func logInternal(logger *zap.Logger, msg string, err error, fields ...zap.Field) error {
	if e.KindOf(err) == e.KindInternal {
		logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}

func idField(key string, id *uuid.UUID) zap.Field {
	if id == nil {
		return zap.Skip()
	}
	return zap.String(key, id.String())
}

// checkClientRef records a violation when ref names no stored client.
func checkClientRef(ctx context.Context, tx *db.Repository, ref *uuid.UUID, v validation.Violations) error {
	if ref == nil || v["clientRef"] != "" {
		return nil
	}
	exists, err := tx.ClientExists(ctx, *ref)
	if err != nil {
		return fmt.Errorf("check client reference: %w", err)
	}
	if !exists {
		v["clientRef"] = "unknown client"
	}
	return nil
}

// requireActor rejects anonymous mutations.
func requireActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return e.ErrUnauthenticated
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
