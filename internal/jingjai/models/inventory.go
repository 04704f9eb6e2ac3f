package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ItemStatus is the availability of an inventory item.
type ItemStatus string

const (
	ItemAvailable   ItemStatus = "Available"
	ItemOut         ItemStatus = "Out"
	ItemMaintenance ItemStatus = "Maintenance"
	ItemRetired     ItemStatus = "Retired"
)

var ItemStatuses = []ItemStatus{ItemAvailable, ItemOut, ItemMaintenance, ItemRetired}

// Item is a piece of equipment held in inventory.
type Item struct {
	ID           uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string                      `gorm:"size:255;not null" json:"name"`
	SKU          string                      `gorm:"size:64;index" json:"sku"`
	Category     string                      `gorm:"size:128" json:"category"`
	Location     string                      `gorm:"size:128" json:"location"`
	Status       ItemStatus                  `gorm:"size:16" json:"status"`
	Quantity     int64                       `json:"quantity"`
	UnitCost     decimal.Decimal             `gorm:"type:decimal(12,2)" json:"unitCost"`
	RentalRate   decimal.Decimal             `gorm:"type:decimal(12,2)" json:"rentalRate"`
	SerialNumber string                      `gorm:"size:128" json:"serialNumber"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Notes        string                      `gorm:"size:3000" json:"notes"`

	Audit
}

// TableName keeps inventory tables grouped under one prefix.
func (Item) TableName() string { return "inventory_items" }

// ItemPatch is the caller-supplied field set of an inventory upsert.
type ItemPatch struct {
	Name         *string          `json:"name,omitempty"`
	SKU          *string          `json:"sku,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Location     *string          `json:"location,omitempty"`
	Status       *ItemStatus      `json:"status,omitempty"`
	Quantity     *int64           `json:"quantity,omitempty"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
	RentalRate   *decimal.Decimal `json:"rentalRate,omitempty"`
	SerialNumber *string          `json:"serialNumber,omitempty"`
	Tags         *[]string        `json:"tags,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// ApplyTo merges the patch into item.
func (p *ItemPatch) ApplyTo(item *Item) {
	setString(&item.Name, p.Name)
	setString(&item.SKU, p.SKU)
	setString(&item.Category, p.Category)
	setString(&item.Location, p.Location)
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitCost != nil {
		item.UnitCost = *p.UnitCost
	}
	if p.RentalRate != nil {
		item.RentalRate = *p.RentalRate
	}
	setString(&item.SerialNumber, p.SerialNumber)
	if p.Tags != nil {
		item.Tags = *p.Tags
	}
	setString(&item.Notes, p.Notes)
}

// Adjustment is one entry of the append-only quantity log. Entries are
// never updated or deleted.
type Adjustment struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ItemID        uuid.UUID `gorm:"type:char(36);index;not null" json:"itemId"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantityAfter"`
	Reason        string    `gorm:"size:500" json:"reason"`
	Actor         string    `gorm:"size:128" json:"actor"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Adjustment) TableName() string { return "inventory_adjustments" }
