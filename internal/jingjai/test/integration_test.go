package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/jingjai/internal/jingjai/api"
	"github.com/gartstein/jingjai/internal/jingjai/auth"
	"github.com/gartstein/jingjai/internal/jingjai/controller"
	"github.com/gartstein/jingjai/internal/jingjai/db"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/handlers"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	testTopic  = "jingjai-events-it"
	testSecret = "integration-secret"
)

var kafkaBrokers = []string{"localhost:9092"}

var tables = []string{
	"clients", "inventory_items", "inventory_adjustments", "sales",
	"resources", "bookings", "counters", "unique_keys",
}

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo      *db.Repository
	producer    *events.Producer
	kafkaReader *kafka.Reader
	grpcServer  *grpc.Server
	conn        *grpc.ClientConn
	client      *api.Client
	token       string
	testTimeout time.Duration
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	logger := zap.NewNop()
	s.testTimeout = 20 * time.Second

	var err error
	s.dbRepo, err = initializeDBWithRetry()
	s.Require().NoError(err, "database initialization failed")

	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(testTopic)
	s.Require().NoError(err, "Kafka initialization failed")

	loc, err := time.LoadLocation("Asia/Bangkok")
	s.Require().NoError(err)
	services := controller.NewServices(s.dbRepo, s.producer, logger, controller.Options{
		AllowNegativeStock: false,
		Location:           loc,
	})
	handler := handlers.NewControlHandler(handlers.Controllers{
		Clients:   services.Clients,
		Inventory: services.Inventory,
		Sales:     services.Sales,
		Resources: services.Resources,
		Bookings:  services.Bookings,
	}, nil, logger)

	lis := bufconn.Listen(1 << 20)
	s.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(auth.NewAuthInterceptor(testSecret).Unary()))
	api.RegisterControlServiceServer(s.grpcServer, handler)
	go func() {
		_ = s.grpcServer.Serve(lis)
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = api.NewClient(s.conn)

	s.token, err = auth.GenerateToken("integration", testSecret, time.Hour)
	s.Require().NoError(err)
}

func initializeDBWithRetry() (*db.Repository, error) {
	cfg := &db.Config{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		DBName:   "test",
		SSLMode:  "disable",
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(cfg)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	return repo, err
}

func initializeKafkaWithRetry(topic string) (*events.Producer, *kafka.Reader, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(kafkaBrokers, zap.NewNop(), topic)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	if err != nil {
		return nil, nil, fmt.Errorf("Kafka producer initialization failed: %w", err)
	}

	// The topic is created by the producer; wait until its partitions are visible.
	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", kafkaBrokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, nil, fmt.Errorf("Kafka topic check failed: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaBrokers,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.kafkaReader != nil {
		_ = s.kafkaReader.Close()
	}
	if s.producer != nil {
		s.producer.Close()
	}
	if s.dbRepo != nil {
		_ = s.dbRepo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	for _, table := range tables {
		s.Require().NoError(s.dbRepo.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"), "failed to clean %s", table)
	}
}

func (s *IntegrationTestSuite) authed(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+s.token)
}

func (s *IntegrationTestSuite) TestClientLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	first, err := s.client.UpsertClient(s.authed(ctx), &api.UpsertClientRequest{Client: &models.ClientPatch{
		LegalName: utils.Ptr("Siam Lens Co., Ltd."),
		TaxID:     utils.Ptr("0105 556 123456"),
	}})
	s.Require().NoError(err)
	s.Equal("CL-100001", first.ClientID)

	second, err := s.client.UpsertClient(s.authed(ctx), &api.UpsertClientRequest{Client: &models.ClientPatch{
		LegalName: utils.Ptr("Riverside Post"),
	}})
	s.Require().NoError(err)
	s.Equal("CL-100002", second.ClientID)

	_, err = s.client.UpsertClient(s.authed(ctx), &api.UpsertClientRequest{Client: &models.ClientPatch{
		LegalName: utils.Ptr("Copycat"),
		TaxID:     utils.Ptr(" 0105556123456 "),
	}})
	s.Equal(codes.AlreadyExists, status.Code(err))

	_, err = s.client.UpsertClient(ctx, &api.UpsertClientRequest{Client: &models.ClientPatch{LegalName: utils.Ptr("Anon")}})
	s.Equal(codes.Unauthenticated, status.Code(err))

	got, err := s.client.GetClient(ctx, &api.IDRequest{ID: first.ID})
	s.Require().NoError(err)
	s.Equal("integration", got.CreatedBy)

	id, err := uuid.Parse(first.ID)
	s.Require().NoError(err)
	s.verifyKafkaEvent(ctx, events.ClientCreated, id)

	_, err = s.client.DeleteClient(s.authed(ctx), &api.IDRequest{ID: first.ID})
	s.Require().NoError(err)
	s.verifyKafkaEvent(ctx, events.ClientDeleted, id)

	// The tax ID is free again once its owner is gone.
	third, err := s.client.UpsertClient(s.authed(ctx), &api.UpsertClientRequest{Client: &models.ClientPatch{
		LegalName: utils.Ptr("Successor"),
		TaxID:     utils.Ptr("0105556123456"),
	}})
	s.Require().NoError(err)
	s.Equal("CL-100003", third.ClientID)
}

func (s *IntegrationTestSuite) TestConcurrentClientCreates() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := s.client.UpsertClient(s.authed(ctx), &api.UpsertClientRequest{Client: &models.ClientPatch{
				LegalName: utils.Ptr(fmt.Sprintf("Client %d", i)),
			}})
			if err != nil {
				errs <- err
				return
			}
			ids <- resp.ClientID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		s.Fail("concurrent create failed", err.Error())
	}
	seen := make(map[string]bool)
	for id := range ids {
		s.False(seen[id], "duplicate client id %s", id)
		seen[id] = true
	}
	s.Len(seen, n)
}

func (s *IntegrationTestSuite) TestInventoryAdjustments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	item, err := s.client.UpsertInventory(s.authed(ctx), &api.UpsertInventoryRequest{Item: &models.ItemPatch{
		Name: utils.Ptr("ARRI SkyPanel"),
		SKU:  utils.Ptr("LT-SKY-60"),
	}})
	s.Require().NoError(err)

	resp, err := s.client.AdjustInventoryQuantity(s.authed(ctx), &api.AdjustQuantityRequest{ItemID: item.ID, Delta: utils.Ptr(5.0), Reason: "purchase"})
	s.Require().NoError(err)
	s.Equal(int64(5), resp.Quantity)

	_, err = s.client.AdjustInventoryQuantity(s.authed(ctx), &api.AdjustQuantityRequest{ItemID: item.ID, Delta: utils.Ptr(-9.0)})
	s.Equal(codes.FailedPrecondition, status.Code(err))

	resp, err = s.client.AdjustInventoryQuantity(s.authed(ctx), &api.AdjustQuantityRequest{ItemID: item.ID, Delta: utils.Ptr(0.0)})
	s.Require().NoError(err)
	s.False(resp.Applied)
	s.Equal(int64(5), resp.Quantity)

	list, err := s.client.ListAdjustments(ctx, &api.ListAdjustmentsRequest{ItemID: item.ID})
	s.Require().NoError(err)
	s.Len(list.Adjustments, 1)
}

func (s *IntegrationTestSuite) TestBookingConflict() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	studio, err := s.client.UpsertResource(s.authed(ctx), &api.UpsertResourceRequest{Resource: &models.ResourcePatch{
		Name: utils.Ptr("Studio A"),
	}})
	s.Require().NoError(err)

	book := func(start, end string) error {
		_, err := s.client.UpsertBooking(s.authed(ctx), &api.UpsertBookingRequest{Booking: &models.BookingPatch{
			Title:      utils.Ptr("Shoot"),
			ResourceID: utils.Ptr(studio.ID),
			Start:      utils.Ptr(start),
			End:        utils.Ptr(end),
		}})
		return err
	}

	s.Require().NoError(book("2026-03-01T09:00", "2026-03-01T12:00"))
	s.Equal(codes.FailedPrecondition, status.Code(book("2026-03-01T11:00", "2026-03-01T13:00")))
	s.NoError(book("2026-03-01T12:00", "2026-03-01T14:00"))

	list, err := s.client.ListBookings(ctx, &api.ListBookingsRequest{ResourceID: studio.ID})
	s.Require().NoError(err)
	s.Len(list.Bookings, 2)
}

func (s *IntegrationTestSuite) verifyKafkaEvent(ctx context.Context, eventType events.EventType, entityID uuid.UUID) {
	event := s.consumeKafkaEvent(ctx, eventType, entityID)
	s.Equal(entityID, event.EntityID, "Kafka message entity ID mismatch")
	s.Equal("integration", event.Actor)
}

// consumeKafkaEvent reads until an event of eventType keyed by entityID
// arrives, skipping everything else.
func (s *IntegrationTestSuite) consumeKafkaEvent(ctx context.Context, eventType events.EventType, entityID uuid.UUID) events.Event {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for attempts := 0; attempts < 200; attempts++ {
		msg, err := s.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.T().Logf("Kafka read attempt %d failed: %v", attempts, err)
			time.Sleep(time.Second)
			continue
		}
		if string(msg.Key) != entityID.String() {
			continue
		}
		var event events.Event
		s.Require().NoError(json.Unmarshal(msg.Value, &event), "failed to unmarshal Kafka message")
		if event.Type != eventType {
			continue
		}
		return event
	}
	s.T().Fatalf("No %s event received for %s", eventType, entityID)
	return events.Event{}
}
