package handlers

import (
	"context"
	"sync"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

type mockClientController struct {
	upsertFunc func(ctx context.Context, actor string, id *uuid.UUID, patch *models.ClientPatch) (*models.Client, error)
	deleteFunc func(ctx context.Context, actor string, id uuid.UUID) error
	getFunc    func(ctx context.Context, id uuid.UUID) (*models.Client, error)
	listFunc   func(ctx context.Context) ([]models.Client, error)
}

func (m *mockClientController) UpsertClient(ctx context.Context, actor string, id *uuid.UUID, patch *models.ClientPatch) (*models.Client, error) {
	return m.upsertFunc(ctx, actor, id, patch)
}

func (m *mockClientController) DeleteClient(ctx context.Context, actor string, id uuid.UUID) error {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockClientController) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return m.getFunc(ctx, id)
}

func (m *mockClientController) ListClients(ctx context.Context) ([]models.Client, error) {
	return m.listFunc(ctx)
}

type mockInventoryController struct {
	upsertFunc          func(ctx context.Context, actor string, id *uuid.UUID, patch *models.ItemPatch) (*models.Item, error)
	deleteFunc          func(ctx context.Context, actor string, id uuid.UUID) error
	adjustFunc          func(ctx context.Context, actor string, itemID uuid.UUID, delta *float64, reason string) (int64, bool, error)
	getFunc             func(ctx context.Context, id uuid.UUID) (*models.Item, error)
	listFunc            func(ctx context.Context) ([]models.Item, error)
	listAdjustmentsFunc func(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error)
}

func (m *mockInventoryController) UpsertItem(ctx context.Context, actor string, id *uuid.UUID, patch *models.ItemPatch) (*models.Item, error) {
	return m.upsertFunc(ctx, actor, id, patch)
}

func (m *mockInventoryController) DeleteItem(ctx context.Context, actor string, id uuid.UUID) error {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockInventoryController) AdjustQuantity(ctx context.Context, actor string, itemID uuid.UUID, delta *float64, reason string) (int64, bool, error) {
	return m.adjustFunc(ctx, actor, itemID, delta, reason)
}

func (m *mockInventoryController) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return m.getFunc(ctx, id)
}

func (m *mockInventoryController) ListItems(ctx context.Context) ([]models.Item, error) {
	return m.listFunc(ctx)
}

func (m *mockInventoryController) ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error) {
	return m.listAdjustmentsFunc(ctx, itemID)
}

type mockSaleController struct {
	upsertFunc func(ctx context.Context, actor string, id *uuid.UUID, patch *models.SalePatch) (*models.Sale, error)
	deleteFunc func(ctx context.Context, actor string, id uuid.UUID) error
	getFunc    func(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	listFunc   func(ctx context.Context, stage string) ([]models.Sale, error)
}

func (m *mockSaleController) UpsertSale(ctx context.Context, actor string, id *uuid.UUID, patch *models.SalePatch) (*models.Sale, error) {
	return m.upsertFunc(ctx, actor, id, patch)
}

func (m *mockSaleController) DeleteSale(ctx context.Context, actor string, id uuid.UUID) error {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockSaleController) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return m.getFunc(ctx, id)
}

func (m *mockSaleController) ListSales(ctx context.Context, stage string) ([]models.Sale, error) {
	return m.listFunc(ctx, stage)
}

type mockResourceController struct {
	upsertFunc func(ctx context.Context, actor string, id *uuid.UUID, patch *models.ResourcePatch) (*models.Resource, error)
	deleteFunc func(ctx context.Context, actor string, id uuid.UUID) error
	getFunc    func(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	listFunc   func(ctx context.Context) ([]models.Resource, error)
}

func (m *mockResourceController) UpsertResource(ctx context.Context, actor string, id *uuid.UUID, patch *models.ResourcePatch) (*models.Resource, error) {
	return m.upsertFunc(ctx, actor, id, patch)
}

func (m *mockResourceController) DeleteResource(ctx context.Context, actor string, id uuid.UUID) error {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockResourceController) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	return m.getFunc(ctx, id)
}

func (m *mockResourceController) ListResources(ctx context.Context) ([]models.Resource, error) {
	return m.listFunc(ctx)
}

type mockBookingController struct {
	upsertFunc func(ctx context.Context, actor string, id *uuid.UUID, patch *models.BookingPatch, allowOverlap bool) (*models.Booking, error)
	deleteFunc func(ctx context.Context, actor string, id uuid.UUID) error
	getFunc    func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	listFunc   func(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error)
}

func (m *mockBookingController) UpsertBooking(ctx context.Context, actor string, id *uuid.UUID, patch *models.BookingPatch, allowOverlap bool) (*models.Booking, error) {
	return m.upsertFunc(ctx, actor, id, patch, allowOverlap)
}

func (m *mockBookingController) DeleteBooking(ctx context.Context, actor string, id uuid.UUID) error {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockBookingController) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.getFunc(ctx, id)
}

func (m *mockBookingController) ListBookings(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error) {
	return m.listFunc(ctx, resourceID)
}

// memoryIdempotency is an in-process IdempotencyStore.
type memoryIdempotency struct {
	mu       sync.Mutex
	keys     map[string]bool
	err      error
	released []string
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]bool)}
}

func (m *memoryIdempotency) Acquire(_ context.Context, method, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	k := method + ":" + key
	if m.keys[k] {
		return false, nil
	}
	m.keys[k] = true
	return true, nil
}

func (m *memoryIdempotency) Release(_ context.Context, method, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := method + ":" + key
	delete(m.keys, k)
	m.released = append(m.released, k)
	return nil
}
