package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gartstein/jingjai/internal/jingjai/api"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the document returned by the gateway for failed calls.
type ErrorBody struct {
	Kind        string            `json:"kind"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

type gateway struct {
	srv    api.ControlServiceServer
	logger *zap.Logger
}

// NewGateway builds the HTTP/JSON routes of ControlService on a
// grpc-gateway mux.
func NewGateway(srv api.ControlServiceServer, logger *zap.Logger) (*runtime.ServeMux, error) {
	g := &gateway{srv: srv, logger: logger.Named("gateway")}
	mux := runtime.NewServeMux()

	byID := func(req *api.IDRequest, _ *http.Request, p map[string]string) { req.ID = p["id"] }
	list := func(*api.ListRequest, *http.Request, map[string]string) {}

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/clients", route(g, true, nil, srv.UpsertClient)},
		{http.MethodPut, "/v1/clients/{id}", route(g, true, func(req *api.UpsertClientRequest, _ *http.Request, p map[string]string) {
			req.ID = p["id"]
		}, srv.UpsertClient)},
		{http.MethodDelete, "/v1/clients/{id}", route(g, false, byID, srv.DeleteClient)},
		{http.MethodGet, "/v1/clients/{id}", route(g, false, byID, srv.GetClient)},
		{http.MethodGet, "/v1/clients", route(g, false, list, srv.ListClients)},

		{http.MethodPost, "/v1/inventory", route(g, true, nil, srv.UpsertInventory)},
		{http.MethodPut, "/v1/inventory/{id}", route(g, true, func(req *api.UpsertInventoryRequest, _ *http.Request, p map[string]string) {
			req.ID = p["id"]
		}, srv.UpsertInventory)},
		{http.MethodDelete, "/v1/inventory/{id}", route(g, false, byID, srv.DeleteInventory)},
		{http.MethodGet, "/v1/inventory/{id}", route(g, false, byID, srv.GetInventory)},
		{http.MethodGet, "/v1/inventory", route(g, false, list, srv.ListInventory)},
		{http.MethodPost, "/v1/inventory/{id}/adjustments", route(g, true, func(req *api.AdjustQuantityRequest, _ *http.Request, p map[string]string) {
			req.ItemID = p["id"]
		}, srv.AdjustInventoryQuantity)},
		{http.MethodGet, "/v1/inventory/{id}/adjustments", route(g, false, func(req *api.ListAdjustmentsRequest, _ *http.Request, p map[string]string) {
			req.ItemID = p["id"]
		}, srv.ListAdjustments)},

		{http.MethodPost, "/v1/sales", route(g, true, nil, srv.UpsertSale)},
		{http.MethodPut, "/v1/sales/{id}", route(g, true, func(req *api.UpsertSaleRequest, _ *http.Request, p map[string]string) {
			req.ID = p["id"]
		}, srv.UpsertSale)},
		{http.MethodDelete, "/v1/sales/{id}", route(g, false, byID, srv.DeleteSale)},
		{http.MethodGet, "/v1/sales/{id}", route(g, false, byID, srv.GetSale)},
		{http.MethodGet, "/v1/sales", route(g, false, func(req *api.ListSalesRequest, r *http.Request, _ map[string]string) {
			req.Stage = r.URL.Query().Get("stage")
		}, srv.ListSales)},

		{http.MethodPost, "/v1/resources", route(g, true, nil, srv.UpsertResource)},
		{http.MethodPut, "/v1/resources/{id}", route(g, true, func(req *api.UpsertResourceRequest, _ *http.Request, p map[string]string) {
			req.ID = p["id"]
		}, srv.UpsertResource)},
		{http.MethodDelete, "/v1/resources/{id}", route(g, false, byID, srv.DeleteResource)},
		{http.MethodGet, "/v1/resources/{id}", route(g, false, byID, srv.GetResource)},
		{http.MethodGet, "/v1/resources", route(g, false, list, srv.ListResources)},

		{http.MethodPost, "/v1/bookings", route(g, true, nil, srv.UpsertBooking)},
		{http.MethodPut, "/v1/bookings/{id}", route(g, true, func(req *api.UpsertBookingRequest, _ *http.Request, p map[string]string) {
			req.ID = p["id"]
		}, srv.UpsertBooking)},
		{http.MethodDelete, "/v1/bookings/{id}", route(g, false, byID, srv.DeleteBooking)},
		{http.MethodGet, "/v1/bookings/{id}", route(g, false, byID, srv.GetBooking)},
		{http.MethodGet, "/v1/bookings", route(g, false, func(req *api.ListBookingsRequest, r *http.Request, _ map[string]string) {
			req.ResourceID = r.URL.Query().Get("resourceId")
		}, srv.ListBookings)},

		{http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
			g.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		}},
	}

	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

// route adapts a ControlService method to an HTTP handler. The body, when
// read, is decoded into the request before bind copies path and query
// values over it.
func route[Req, Resp any](
	g *gateway,
	withBody bool,
	bind func(*Req, *http.Request, map[string]string),
	call func(context.Context, *Req) (*Resp, error),
) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		req := new(Req)
		if withBody {
			if err := decodeBody(w, r, req); err != nil {
				g.writeError(w, status.Errorf(codes.InvalidArgument, "malformed request body: %v", err))
				return
			}
		}
		if bind != nil {
			bind(req, r, params)
		}

		resp, err := call(incomingContext(r), req)
		if err != nil {
			g.writeError(w, err)
			return
		}
		g.writeJSON(w, http.StatusOK, resp)
	}
}

// decodeBody reads a JSON document; an empty body counts as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// incomingContext exposes the Idempotency-Key header the way a gRPC
// caller would send it.
func incomingContext(r *http.Request) context.Context {
	ctx := r.Context()
	if key := r.Header.Get(IdempotencyKeyHeader); key != "" {
		ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(IdempotencyKeyHeader, key))
	}
	return ctx
}

func (g *gateway) writeError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	g.writeJSON(w, runtime.HTTPStatusFromCode(st.Code()), ErrorBody{
		Kind:        string(kindOfCode(st.Code())),
		Message:     st.Message(),
		FieldErrors: fieldViolations(st),
	})
}

func (g *gateway) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Warn("Failed to write response", zap.Error(err))
	}
}
