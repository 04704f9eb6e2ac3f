package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the confirmation state of a booking.
type BookingStatus string

const (
	BookingTentative BookingStatus = "Tentative"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingHold      BookingStatus = "Hold"
	BookingCancelled BookingStatus = "Cancelled"
)

var BookingStatuses = []BookingStatus{BookingTentative, BookingConfirmed, BookingHold, BookingCancelled}

// Booking reserves a resource for the half-open interval [Start, End).
// Start and End are stored in UTC.
type Booking struct {
	ID         uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	ResourceID *uuid.UUID    `gorm:"type:char(36);index:idx_booking_resource_start" json:"resourceId"`
	Start      time.Time     `gorm:"column:starts_at;index:idx_booking_resource_start" json:"start"`
	End        time.Time     `gorm:"column:ends_at" json:"end"`
	ClientRef  *uuid.UUID    `gorm:"type:char(36)" json:"clientRef"`
	Location   string        `gorm:"size:255" json:"location"`
	Notes      string        `gorm:"size:3000" json:"notes"`
	Status     BookingStatus `gorm:"size:16" json:"status"`

	Audit
}

// BookingPatch is the caller-supplied field set of a booking upsert.
// References and timestamps arrive as text and are parsed during validation.
type BookingPatch struct {
	Title      *string        `json:"title,omitempty"`
	ResourceID *string        `json:"resourceId,omitempty"`
	Start      *string        `json:"start,omitempty"`
	End        *string        `json:"end,omitempty"`
	ClientRef  *string        `json:"clientRef,omitempty"`
	Location   *string        `json:"location,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	Status     *BookingStatus `json:"status,omitempty"`
}

// ApplyTo merges the plain fields of the patch into b.
func (p *BookingPatch) ApplyTo(b *Booking) {
	setString(&b.Title, p.Title)
	setString(&b.Location, p.Location)
	setString(&b.Notes, p.Notes)
	if p.Status != nil {
		b.Status = *p.Status
	}
}
