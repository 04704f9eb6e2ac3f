package handlers

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/api"
	"github.com/gartstein/jingjai/internal/jingjai/auth"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// IdempotencyKeyHeader carries the caller's idempotency key, as gRPC
// metadata or HTTP header.
const IdempotencyKeyHeader = "idempotency-key"

// IdempotencyStore remembers which create requests were already accepted.
type IdempotencyStore interface {
	Acquire(ctx context.Context, method, key string) (bool, error)
	Release(ctx context.Context, method, key string) error
}

// ControlHandler implements api.ControlServiceServer on top of the service
// layer. The caller identity comes from the verified token in the context.
type ControlHandler struct {
	clients   ClientController
	inventory InventoryController
	sales     SaleController
	resources ResourceController
	bookings  BookingController
	idem      IdempotencyStore
	logger    *zap.Logger
}

// NewControlHandler constructs a ControlHandler. idem may be nil to
// disable idempotency keys.
func NewControlHandler(c Controllers, idem IdempotencyStore, logger *zap.Logger) *ControlHandler {
	return &ControlHandler{
		clients:   c.Clients,
		inventory: c.Inventory,
		sales:     c.Sales,
		resources: c.Resources,
		bookings:  c.Bookings,
		idem:      idem,
		logger:    logger.Named("grpc_handler"),
	}
}

var _ api.ControlServiceServer = (*ControlHandler)(nil)

// claim registers the idempotency key of a create request. The returned
// func must be called with the outcome; a failed request frees the key.
func (h *ControlHandler) claim(ctx context.Context, method string, create bool) (func(error), error) {
	noop := func(error) {}
	if h.idem == nil || !create {
		return noop, nil
	}
	md, _ := metadata.FromIncomingContext(ctx)
	keys := md.Get(IdempotencyKeyHeader)
	if len(keys) == 0 || keys[0] == "" {
		return noop, nil
	}
	key := keys[0]

	ok, err := h.idem.Acquire(ctx, method, key)
	if err != nil {
		h.logger.Warn("Idempotency store unavailable, accepting request",
			zap.Error(err),
			zap.String("method", method),
		)
		return noop, nil
	}
	if !ok {
		return nil, status.Errorf(codes.AlreadyExists, "request with idempotency key %q was already accepted", key)
	}
	return func(callErr error) {
		if callErr == nil {
			return
		}
		if err := h.idem.Release(context.WithoutCancel(ctx), method, key); err != nil {
			h.logger.Warn("Failed to release idempotency key", zap.Error(err), zap.String("method", method))
		}
	}, nil
}

func (h *ControlHandler) UpsertClient(ctx context.Context, req *api.UpsertClientRequest) (*api.UpsertClientResponse, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	done, err := h.claim(ctx, api.MethodUpsertClient, id == nil)
	if err != nil {
		return nil, err
	}
	client, err := h.clients.UpsertClient(ctx, auth.ActorFromContext(ctx), id, req.Client)
	done(err)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.UpsertClientResponse{ID: client.ID.String(), ClientID: client.ClientID}, nil
}

func (h *ControlHandler) DeleteClient(ctx context.Context, req *api.IDRequest) (*api.DeleteResponse, error) {
	return h.delete(ctx, req, h.clients.DeleteClient)
}

func (h *ControlHandler) GetClient(ctx context.Context, req *api.IDRequest) (*models.Client, error) {
	return get(ctx, h, req, h.clients.GetClient)
}

func (h *ControlHandler) ListClients(ctx context.Context, _ *api.ListRequest) (*api.ListClientsResponse, error) {
	clients, err := h.clients.ListClients(ctx)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListClientsResponse{Clients: clients}, nil
}

func (h *ControlHandler) UpsertInventory(ctx context.Context, req *api.UpsertInventoryRequest) (*api.UpsertResponse, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	done, err := h.claim(ctx, api.MethodUpsertInventory, id == nil)
	if err != nil {
		return nil, err
	}
	item, err := h.inventory.UpsertItem(ctx, auth.ActorFromContext(ctx), id, req.Item)
	done(err)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.UpsertResponse{ID: item.ID.String()}, nil
}

func (h *ControlHandler) DeleteInventory(ctx context.Context, req *api.IDRequest) (*api.DeleteResponse, error) {
	return h.delete(ctx, req, h.inventory.DeleteItem)
}

func (h *ControlHandler) GetInventory(ctx context.Context, req *api.IDRequest) (*models.Item, error) {
	return get(ctx, h, req, h.inventory.GetItem)
}

func (h *ControlHandler) ListInventory(ctx context.Context, _ *api.ListRequest) (*api.ListInventoryResponse, error) {
	items, err := h.inventory.ListItems(ctx)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListInventoryResponse{Items: items}, nil
}

func (h *ControlHandler) AdjustInventoryQuantity(ctx context.Context, req *api.AdjustQuantityRequest) (*api.AdjustQuantityResponse, error) {
	itemID, err := parseID("itemId", req.ItemID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	quantity, applied, err := h.inventory.AdjustQuantity(ctx, auth.ActorFromContext(ctx), itemID, req.Delta, req.Reason)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.AdjustQuantityResponse{Quantity: quantity, Applied: applied}, nil
}

func (h *ControlHandler) ListAdjustments(ctx context.Context, req *api.ListAdjustmentsRequest) (*api.ListAdjustmentsResponse, error) {
	itemID, err := parseID("itemId", req.ItemID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	adjustments, err := h.inventory.ListAdjustments(ctx, itemID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListAdjustmentsResponse{Adjustments: adjustments}, nil
}

func (h *ControlHandler) UpsertSale(ctx context.Context, req *api.UpsertSaleRequest) (*api.UpsertResponse, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	done, err := h.claim(ctx, api.MethodUpsertSale, id == nil)
	if err != nil {
		return nil, err
	}
	sale, err := h.sales.UpsertSale(ctx, auth.ActorFromContext(ctx), id, req.Sale)
	done(err)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.UpsertResponse{ID: sale.ID.String()}, nil
}

func (h *ControlHandler) DeleteSale(ctx context.Context, req *api.IDRequest) (*api.DeleteResponse, error) {
	return h.delete(ctx, req, h.sales.DeleteSale)
}

func (h *ControlHandler) GetSale(ctx context.Context, req *api.IDRequest) (*models.Sale, error) {
	return get(ctx, h, req, h.sales.GetSale)
}

func (h *ControlHandler) ListSales(ctx context.Context, req *api.ListSalesRequest) (*api.ListSalesResponse, error) {
	sales, err := h.sales.ListSales(ctx, req.Stage)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListSalesResponse{Sales: sales}, nil
}

func (h *ControlHandler) UpsertResource(ctx context.Context, req *api.UpsertResourceRequest) (*api.UpsertResponse, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	done, err := h.claim(ctx, api.MethodUpsertResource, id == nil)
	if err != nil {
		return nil, err
	}
	resource, err := h.resources.UpsertResource(ctx, auth.ActorFromContext(ctx), id, req.Resource)
	done(err)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.UpsertResponse{ID: resource.ID.String()}, nil
}

func (h *ControlHandler) DeleteResource(ctx context.Context, req *api.IDRequest) (*api.DeleteResponse, error) {
	return h.delete(ctx, req, h.resources.DeleteResource)
}

func (h *ControlHandler) GetResource(ctx context.Context, req *api.IDRequest) (*models.Resource, error) {
	return get(ctx, h, req, h.resources.GetResource)
}

func (h *ControlHandler) ListResources(ctx context.Context, _ *api.ListRequest) (*api.ListResourcesResponse, error) {
	resources, err := h.resources.ListResources(ctx)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListResourcesResponse{Resources: resources}, nil
}

func (h *ControlHandler) UpsertBooking(ctx context.Context, req *api.UpsertBookingRequest) (*api.UpsertResponse, error) {
	id, err := optionalID(req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	done, err := h.claim(ctx, api.MethodUpsertBooking, id == nil)
	if err != nil {
		return nil, err
	}
	booking, err := h.bookings.UpsertBooking(ctx, auth.ActorFromContext(ctx), id, req.Booking, req.AllowOverlap)
	done(err)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.UpsertResponse{ID: booking.ID.String()}, nil
}

func (h *ControlHandler) DeleteBooking(ctx context.Context, req *api.IDRequest) (*api.DeleteResponse, error) {
	return h.delete(ctx, req, h.bookings.DeleteBooking)
}

func (h *ControlHandler) GetBooking(ctx context.Context, req *api.IDRequest) (*models.Booking, error) {
	return get(ctx, h, req, h.bookings.GetBooking)
}

func (h *ControlHandler) ListBookings(ctx context.Context, req *api.ListBookingsRequest) (*api.ListBookingsResponse, error) {
	var resourceID *uuid.UUID
	if req.ResourceID != "" {
		id, err := parseID("resourceId", req.ResourceID)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		resourceID = &id
	}
	bookings, err := h.bookings.ListBookings(ctx, resourceID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.ListBookingsResponse{Bookings: bookings}, nil
}

func (h *ControlHandler) delete(ctx context.Context, req *api.IDRequest, del func(context.Context, string, uuid.UUID) error) (*api.DeleteResponse, error) {
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	if err := del(ctx, auth.ActorFromContext(ctx), id); err != nil {
		return nil, h.mapServiceError(err)
	}
	return &api.DeleteResponse{OK: true}, nil
}

func get[T any](ctx context.Context, h *ControlHandler, req *api.IDRequest, fetch func(context.Context, uuid.UUID) (*T, error)) (*T, error) {
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	rec, err := fetch(ctx, id)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return rec, nil
}
