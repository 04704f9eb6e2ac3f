// Package models defines the domain models of the control service: clients,
// inventory items and their adjustment log, sales, resources and bookings.
// The same structs are persisted through GORM and serialized on the API.
package models

import (
	"time"
)

// Audit carries the server-set bookkeeping columns shared by every record.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `gorm:"size:128" json:"createdBy"`
	UpdatedBy string    `gorm:"size:128" json:"updatedBy"`
}

// Touch stamps the update half of the audit columns.
func (a *Audit) Touch(actor string, now time.Time) {
	a.UpdatedAt = now
	a.UpdatedBy = actor
}

// Stamp sets both halves, for records being created.
func (a *Audit) Stamp(actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.Touch(actor, now)
}

// Address is a postal address stored inline with its owner.
type Address struct {
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2"`
	City       string `gorm:"size:128" json:"city"`
	Region     string `gorm:"size:128" json:"region"`
	PostalCode string `gorm:"size:32" json:"postalCode"`
	Country    string `gorm:"size:64" json:"country"`
}

// Contact is a person at a client. At most one is expected to be primary,
// which is a UI convention and not enforced here.
type Contact struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"isPrimary"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
