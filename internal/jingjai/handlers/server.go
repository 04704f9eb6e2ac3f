// Package handlers serves ControlService over gRPC and an HTTP/JSON gateway,
// bridging the transport layer and the service layer.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/api"
	"github.com/gartstein/jingjai/internal/jingjai/auth"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// ClientController is the client logic the handlers invoke.
type ClientController interface {
	UpsertClient(ctx context.Context, actor string, id *uuid.UUID, patch *models.ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, actor string, id uuid.UUID) error
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
}

type InventoryController interface {
	UpsertItem(ctx context.Context, actor string, id *uuid.UUID, patch *models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, actor string, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, actor string, itemID uuid.UUID, delta *float64, reason string) (int64, bool, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.Adjustment, error)
}

type SaleController interface {
	UpsertSale(ctx context.Context, actor string, id *uuid.UUID, patch *models.SalePatch) (*models.Sale, error)
	DeleteSale(ctx context.Context, actor string, id uuid.UUID) error
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, stage string) ([]models.Sale, error)
}

type ResourceController interface {
	UpsertResource(ctx context.Context, actor string, id *uuid.UUID, patch *models.ResourcePatch) (*models.Resource, error)
	DeleteResource(ctx context.Context, actor string, id uuid.UUID) error
	GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	ListResources(ctx context.Context) ([]models.Resource, error)
}

type BookingController interface {
	UpsertBooking(ctx context.Context, actor string, id *uuid.UUID, patch *models.BookingPatch, allowOverlap bool) (*models.Booking, error)
	DeleteBooking(ctx context.Context, actor string, id uuid.UUID) error
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error)
}

// Controllers groups the services behind ControlService.
type Controllers struct {
	Clients   ClientController
	Inventory InventoryController
	Sales     SaleController
	Resources ResourceController
	Bookings  BookingController
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	return &Server{
		grpcServer:   grpc.NewServer(grpcOpts...),
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		logger:       logger,
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterGRPCHandler registers the ControlService implementation.
func (s *Server) RegisterGRPCHandler(h api.ControlServiceServer) {
	api.RegisterControlServiceServer(s.grpcServer, h)
}

// RegisterHTTPGateway mounts the HTTP/JSON routes of h behind the auth
// middleware. The gateway calls h in-process.
func (s *Server) RegisterHTTPGateway(h api.ControlServiceServer, jwtSecret string) error {
	mux, err := NewGateway(h, s.logger)
	if err != nil {
		return err
	}

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret)
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}
