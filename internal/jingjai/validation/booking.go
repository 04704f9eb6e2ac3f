package validation

import (
	"strings"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/models"
)

// localLayouts are accepted for timestamps without an offset; they are
// read in the configured zone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime reads an RFC 3339 timestamp, or a local one in loc, and returns
// it in UTC at second precision.
func ParseTime(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		for _, layout := range localLayouts {
			if t, err = time.ParseInLocation(layout, raw, loc); err == nil {
				break
			}
		}
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Second), nil
}

func SanitizeBooking(p *models.BookingPatch) {
	for _, s := range []*string{p.Title, p.ResourceID, p.Start, p.End, p.ClientRef, p.Location, p.Notes} {
		trim(s)
	}
	if p.Status != nil {
		*p.Status = models.BookingStatus(strings.TrimSpace(string(*p.Status)))
	}
}

// ApplyBooking merges p into b, parsing references and timestamps.
func ApplyBooking(b *models.Booking, p *models.BookingPatch, loc *time.Location) Violations {
	v := Violations{}
	p.ApplyTo(b)
	if p.ResourceID != nil {
		b.ResourceID = parseRef("resourceId", *p.ResourceID, v)
	}
	if p.ClientRef != nil {
		b.ClientRef = parseRef("clientRef", *p.ClientRef, v)
	}
	for _, f := range []struct {
		name string
		raw  *string
		dst  *time.Time
	}{
		{"start", p.Start, &b.Start},
		{"end", p.End, &b.End},
	} {
		if f.raw == nil {
			continue
		}
		if *f.raw == "" {
			*f.dst = time.Time{}
			continue
		}
		t, err := ParseTime(*f.raw, loc)
		if err != nil {
			v[f.name] = "must be a timestamp (RFC 3339 or YYYY-MM-DDTHH:MM)"
			continue
		}
		*f.dst = t
	}
	return v
}

// Booking fills defaults and validates a merged booking.
func Booking(b *models.Booking) Violations {
	v := Violations{}
	Required("title", b.Title, v)
	MaxLength("title", b.Title, 255, v)
	MaxLength("notes", b.Notes, 3000, v)
	OneOf("status", &b.Status, models.BookingStatuses, models.BookingTentative, v)
	if b.Start.IsZero() {
		v["start"] = "required"
	}
	if b.End.IsZero() {
		v["end"] = "required"
	}
	if !b.Start.IsZero() && !b.End.IsZero() && !b.End.After(b.Start) {
		v["end"] = "must be after start"
	}
	return v
}
