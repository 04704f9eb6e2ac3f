package controller

import (
	"errors"
	"testing"
	"time"

	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/gartstein/jingjai/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bangkok(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

func createResource(t *testing.T, f *fixture, name string) *models.Resource {
	t.Helper()
	r, err := f.services.Resources.UpsertResource(ctx(), testActor, nil, &models.ResourcePatch{
		Name: utils.Ptr(name),
		Type: utils.Ptr("studio"),
	})
	require.NoError(t, err)
	return r
}

func bookingPatch(resource uuid.UUID, start, end string) *models.BookingPatch {
	return &models.BookingPatch{
		Title:      utils.Ptr("Shoot"),
		ResourceID: utils.Ptr(resource.String()),
		Start:      utils.Ptr(start),
		End:        utils.Ptr(end),
	}
}

func TestBookingService_UpsertBooking(t *testing.T) {
	f := setup(t, Options{Location: bangkok(t)})
	svc := f.services.Bookings
	studio := createResource(t, f, "Studio A")
	other := createResource(t, f, "Studio B")

	first, err := svc.UpsertBooking(ctx(), testActor, nil,
		bookingPatch(studio.ID, "2026-10-20T10:00", "2026-10-20T11:00"), false)
	require.NoError(t, err)
	assert.Equal(t, models.BookingTentative, first.Status)
	assert.Equal(t, time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC), first.Start.UTC(), "local times are read in the configured zone")

	t.Run("re-saving does not conflict with itself", func(t *testing.T) {
		updated, err := svc.UpsertBooking(ctx(), testActor, &first.ID, &models.BookingPatch{
			Notes:  utils.Ptr("bring the dolly"),
			Status: utils.Ptr(models.BookingConfirmed),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, updated.Status)
		assert.True(t, first.Start.Equal(updated.Start))
	})

	tests := []struct {
		name         string
		patch        *models.BookingPatch
		allowOverlap bool
		wantErr      error
	}{
		{
			name:    "partial overlap",
			patch:   bookingPatch(studio.ID, "2026-10-20T10:30", "2026-10-20T11:30"),
			wantErr: e.ErrFailedPrecondition,
		},
		{
			name:    "overlap given in another zone",
			patch:   bookingPatch(studio.ID, "2026-10-20T03:30:00Z", "2026-10-20T03:45:00Z"),
			wantErr: e.ErrFailedPrecondition,
		},
		{
			name:  "adjacent",
			patch: bookingPatch(studio.ID, "2026-10-20T11:00", "2026-10-20T12:00"),
		},
		{
			name:  "other resource",
			patch: bookingPatch(other.ID, "2026-10-20T10:30", "2026-10-20T11:30"),
		},
		{
			name:         "overlap allowed",
			patch:        bookingPatch(studio.ID, "2026-10-20T10:15", "2026-10-20T10:45"),
			allowOverlap: true,
		},
		{
			name: "cancelled candidate",
			patch: func() *models.BookingPatch {
				p := bookingPatch(studio.ID, "2026-10-20T10:00", "2026-10-20T11:00")
				p.Status = utils.Ptr(models.BookingCancelled)
				return p
			}(),
		},
		{
			name:    "end before start",
			patch:   bookingPatch(studio.ID, "2026-10-21T11:00", "2026-10-21T10:00"),
			wantErr: e.ErrInvalidInput,
		},
		{
			name:    "unknown resource",
			patch:   bookingPatch(uuid.New(), "2026-10-22T10:00", "2026-10-22T11:00"),
			wantErr: e.ErrInvalidInput,
		},
		{
			name:    "unparseable time",
			patch:   bookingPatch(studio.ID, "tomorrow", "2026-10-22T11:00"),
			wantErr: e.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertBooking(ctx(), testActor, nil, tt.patch, tt.allowOverlap)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown resource is a field error", func(t *testing.T) {
		_, err := svc.UpsertBooking(ctx(), testActor, nil,
			bookingPatch(uuid.New(), "2026-10-22T10:00", "2026-10-22T11:00"), false)
		var v validation.Violations
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "unknown resource", v["resourceId"])
	})
}

func TestBookingService_ClientRef(t *testing.T) {
	f := setup(t, Options{})
	svc := f.services.Bookings
	studio := createResource(t, f, "Studio A")
	client, err := f.services.Clients.UpsertClient(ctx(), testActor, nil, acme())
	require.NoError(t, err)

	p := bookingPatch(studio.ID, "2026-10-20T10:00", "2026-10-20T11:00")
	p.ClientRef = utils.Ptr(uuid.NewString())
	_, err = svc.UpsertBooking(ctx(), testActor, nil, p, false)
	require.ErrorIs(t, err, e.ErrInvalidInput)
	var v validation.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "unknown client", v["clientRef"])

	p.ClientRef = utils.Ptr(client.ID.String())
	b, err := svc.UpsertBooking(ctx(), testActor, nil, p, false)
	require.NoError(t, err)
	require.NotNil(t, b.ClientRef)
	assert.Equal(t, client.ID, *b.ClientRef)
}

func TestBookingService_ArchivedResource(t *testing.T) {
	f := setup(t, Options{})
	studio := createResource(t, f, "Old studio")
	_, err := f.services.Resources.UpsertResource(ctx(), testActor, &studio.ID, &models.ResourcePatch{
		Archived: utils.Ptr(true),
	})
	require.NoError(t, err)

	_, err = f.services.Bookings.UpsertBooking(ctx(), testActor, nil,
		bookingPatch(studio.ID, "2026-10-20T10:00:00Z", "2026-10-20T11:00:00Z"), false)

	assert.ErrorIs(t, err, e.ErrFailedPrecondition)
}

func TestBookingService_DeleteAndList(t *testing.T) {
	f := setup(t, Options{})
	svc := f.services.Bookings
	studio := createResource(t, f, "Studio A")

	b, err := svc.UpsertBooking(ctx(), testActor, nil,
		bookingPatch(studio.ID, "2026-10-20T10:00:00Z", "2026-10-20T11:00:00Z"), false)
	require.NoError(t, err)
	_, err = svc.UpsertBooking(ctx(), testActor, nil, &models.BookingPatch{
		Title: utils.Ptr("Office day"),
		Start: utils.Ptr("2026-10-19T09:00:00Z"),
		End:   utils.Ptr("2026-10-19T17:00:00Z"),
	}, false)
	require.NoError(t, err)

	all, err := svc.ListBookings(ctx(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Office day", all[0].Title)

	onStudio, err := svc.ListBookings(ctx(), &studio.ID)
	require.NoError(t, err)
	require.Len(t, onStudio, 1)

	require.NoError(t, svc.DeleteBooking(ctx(), testActor, b.ID))
	_, err = svc.GetBooking(ctx(), b.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = svc.UpsertBooking(ctx(), testActor, nil,
		bookingPatch(studio.ID, "2026-10-20T10:00:00Z", "2026-10-20T11:00:00Z"), false)
	assert.NoError(t, err, "the slot is free again")
}

func TestResourceService(t *testing.T) {
	f := setup(t, Options{})
	svc := f.services.Resources
	studio := createResource(t, f, "Studio B")
	assert.Equal(t, events.ResourceCreated, f.producer.next(t).Type)

	list, err := svc.ListResources(ctx())
	require.NoError(t, err)
	require.Len(t, list, 1)

	createResource(t, f, "Studio A")
	list, err = svc.ListResources(ctx())
	require.NoError(t, err)
	require.Len(t, list, 2, "writes invalidate the cached list")
	assert.Equal(t, "Studio A", list[0].Name)

	_, err = svc.UpsertResource(ctx(), testActor, nil, &models.ResourcePatch{Name: utils.Ptr(" ")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = f.services.Bookings.UpsertBooking(ctx(), testActor, nil,
		bookingPatch(studio.ID, "2026-10-20T10:00:00Z", "2026-10-20T11:00:00Z"), false)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteResource(ctx(), testActor, studio.ID), e.ErrFailedPrecondition)

	_, err = svc.GetResource(ctx(), studio.ID)
	require.NoError(t, err)
}
