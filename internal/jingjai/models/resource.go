package models

import (
	"github.com/google/uuid"
)

// Resource is something that can be booked: a studio, a crew, a vehicle.
type Resource struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Type     string    `gorm:"size:64" json:"type"`
	Archived bool      `json:"archived"`

	Audit
}

type ResourcePatch struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}

func (p *ResourcePatch) ApplyTo(r *Resource) {
	setString(&r.Name, p.Name)
	setString(&r.Type, p.Type)
	setBool(&r.Archived, p.Archived)
}
