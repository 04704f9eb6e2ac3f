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
	"github.com/gartstein/jingjai/internal/jingjai/schedule"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService manages resource bookings. Writes to bookings of one
// resource are serialized on the resource row, and overlaps are checked
// inside the same transaction.
type BookingService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
	loc      *time.Location
}

func NewBookingService(repo Repository, producer EventProducer, logger *zap.Logger, loc *time.Location) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("booking_service"),
		loc:      loc,
	}
}

// UpsertBooking creates or updates a booking. Unless allowOverlap is set,
// an active booking may not overlap another active booking of the same
// resource.
func (s *BookingService) UpsertBooking(ctx context.Context, actor string, id *uuid.UUID, patch *models.BookingPatch, allowOverlap bool) (*models.Booking, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = &models.BookingPatch{}
	}
	validation.SanitizeBooking(patch)

	var booking *models.Booking
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current := &models.Booking{}
		if id != nil {
			var err error
			if current, err = tx.GetBooking(ctx, *id); err != nil {
				return err
			}
		}

		merged := *current
		v := validation.ApplyBooking(&merged, patch, s.loc)
		v.Merge(validation.Booking(&merged))
		if err := checkClientRef(ctx, tx, merged.ClientRef, v); err != nil {
			return err
		}
		if err := v.Err(); err != nil {
			return err
		}

		ts := now()
		if id == nil {
			merged.ID = uuid.New()
		}
		if merged.ResourceID != nil {
			if err := s.checkResource(ctx, tx, &merged, allowOverlap); err != nil {
				return err
			}
		}

		if id == nil {
			merged.Stamp(actor, ts)
			if err := tx.CreateBooking(ctx, &merged); err != nil {
				return err
			}
		} else {
			merged.Touch(actor, ts)
			if err := tx.SaveBooking(ctx, &merged); err != nil {
				return err
			}
		}
		booking = &merged
		return nil
	})
	if err != nil {
		return nil, logInternal(s.logger, "Failed to upsert booking", err, idField("booking_id", id))
	}

	eventType := events.BookingUpdated
	if id == nil {
		eventType = events.BookingCreated
	}
	publish(s.producer, eventType, booking.ID, actor, booking)
	return booking, nil
}

// checkResource locks the booked resource and rejects the booking when the
// resource is archived or already taken for the interval.
func (s *BookingService) checkResource(ctx context.Context, tx *db.Repository, booking *models.Booking, allowOverlap bool) error {
	resource, err := tx.LockResource(ctx, *booking.ResourceID)
	if errors.Is(err, e.ErrNotFound) {
		return validation.Violations{"resourceId": "unknown resource"}
	}
	if err != nil {
		return err
	}
	if resource.Archived && booking.Status != models.BookingCancelled {
		return fmt.Errorf("%w: resource %q is archived", e.ErrFailedPrecondition, resource.Name)
	}
	if allowOverlap || booking.Status == models.BookingCancelled {
		return nil
	}

	existing, err := tx.ActiveBookingsForResource(ctx, resource.ID)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	if other := schedule.FirstConflict(booking, existing); other != nil {
		return fmt.Errorf("%w: %s is already booked from %s to %s by %q",
			e.ErrFailedPrecondition, resource.Name,
			other.Start.In(s.loc).Format(time.RFC3339), other.End.In(s.loc).Format(time.RFC3339), other.Title)
	}
	return nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, actor string, id uuid.UUID) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteBooking(ctx, id)
	})
	if err != nil {
		return logInternal(s.logger, "Failed to delete booking", err, idField("booking_id", &id))
	}
	publish(s.producer, events.BookingDeleted, id, actor, nil)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns bookings ordered by start, optionally only those of
// one resource.
func (s *BookingService) ListBookings(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error) {
	bookings, err := s.repo.ListBookings(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
