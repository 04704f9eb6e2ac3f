package db

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return createRecord(ctx, r.db, booking)
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return getRecord[models.Booking](ctx, r.db, id, false)
}

func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	return saveRecord(ctx, r.db, booking)
}

func (r *Repository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.Booking](ctx, r.db, id)
}

// ActiveBookingsForResource returns the bookings holding a resource, i.e.
// all that are not cancelled.
func (r *Repository) ActiveBookingsForResource(ctx context.Context, resourceID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND status <> ?", resourceID, models.BookingCancelled).
		Order("starts_at").
		Find(&bookings).Error
	return bookings, err
}

// ListBookings returns bookings ordered by start. A non-nil resourceID
// restricts the result to that resource.
func (r *Repository) ListBookings(ctx context.Context, resourceID *uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Order("starts_at")
	if resourceID != nil {
		q = q.Where("resource_id = ?", *resourceID)
	}
	err := q.Find(&bookings).Error
	return bookings, err
}
