package validation

import (
	"strings"

	"github.com/gartstein/jingjai/internal/jingjai/models"
)

func SanitizeItem(p *models.ItemPatch) {
	for _, s := range []*string{p.Name, p.SKU, p.Category, p.Location, p.SerialNumber, p.Notes} {
		trim(s)
	}
	if p.Status != nil {
		*p.Status = models.ItemStatus(strings.TrimSpace(string(*p.Status)))
	}
	trimSet(p.Tags)
}

// Item fills defaults and validates a merged inventory item.
func Item(item *models.Item) Violations {
	v := Violations{}
	Required("name", item.Name, v)
	MaxLength("name", item.Name, 255, v)
	MaxLength("sku", item.SKU, 64, v)
	MaxLength("notes", item.Notes, 3000, v)
	OneOf("status", &item.Status, models.ItemStatuses, models.ItemAvailable, v)
	NonNegative("unitCost", item.UnitCost, v)
	NonNegative("rentalRate", item.RentalRate, v)
	Numeric("unitCost", item.UnitCost, 12, 2, v)
	Numeric("rentalRate", item.RentalRate, 12, 2, v)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return v
}
