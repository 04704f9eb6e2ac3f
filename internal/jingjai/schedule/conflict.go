// Package schedule decides whether bookings of the same resource collide.
package schedule

import (
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/models"
)

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// share an instant. Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// HasConflict reports whether candidate overlaps any booking in existing that
// holds the same resource. The candidate itself (matched by ID) and cancelled
// bookings never conflict.
func HasConflict(candidate *models.Booking, existing []models.Booking) bool {
	return FirstConflict(candidate, existing) != nil
}

// FirstConflict returns the first booking that collides with candidate, or nil.
func FirstConflict(candidate *models.Booking, existing []models.Booking) *models.Booking {
	if candidate.ResourceID == nil || candidate.Status == models.BookingCancelled {
		return nil
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID || other.Status == models.BookingCancelled {
			continue
		}
		if other.ResourceID == nil || *other.ResourceID != *candidate.ResourceID {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, other.Start, other.End) {
			return other
		}
	}
	return nil
}
