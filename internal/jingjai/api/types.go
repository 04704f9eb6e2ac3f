// Package api defines the jingjai.v1.ControlService wire contract: request
// and response documents, the JSON codec they travel in and the gRPC
// service descriptor.
package api

import "github.com/gartstein/jingjai/internal/jingjai/models"

// IDRequest addresses a single record.
type IDRequest struct {
	ID string `json:"id"`
}

type ListRequest struct{}

type UpsertResponse struct {
	ID string `json:"id"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}

type UpsertClientRequest struct {
	// ID is empty to create a client.
	ID     string              `json:"id,omitempty"`
	Client *models.ClientPatch `json:"client"`
}

type UpsertClientResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
}

type ListClientsResponse struct {
	Clients []models.Client `json:"clients"`
}

type UpsertInventoryRequest struct {
	ID   string            `json:"id,omitempty"`
	Item *models.ItemPatch `json:"item"`
}

type ListInventoryResponse struct {
	Items []models.Item `json:"items"`
}

type AdjustQuantityRequest struct {
	ItemID string   `json:"itemId"`
	Delta  *float64 `json:"delta"`
	Reason string   `json:"reason"`
}

type AdjustQuantityResponse struct {
	Quantity int64 `json:"quantity"`
	Applied  bool  `json:"applied"`
}

type ListAdjustmentsRequest struct {
	ItemID string `json:"itemId"`
}

type ListAdjustmentsResponse struct {
	Adjustments []models.Adjustment `json:"adjustments"`
}

type UpsertSaleRequest struct {
	ID   string            `json:"id,omitempty"`
	Sale *models.SalePatch `json:"sale"`
}

type ListSalesRequest struct {
	Stage string `json:"stage,omitempty"`
}

type ListSalesResponse struct {
	Sales []models.Sale `json:"sales"`
}

type UpsertResourceRequest struct {
	ID       string                `json:"id,omitempty"`
	Resource *models.ResourcePatch `json:"resource"`
}

type ListResourcesResponse struct {
	Resources []models.Resource `json:"resources"`
}

type UpsertBookingRequest struct {
	ID      string               `json:"id,omitempty"`
	Booking *models.BookingPatch `json:"booking"`
	// AllowOverlap skips the conflict check against other bookings.
	AllowOverlap bool `json:"allowOverlap,omitempty"`
}

type ListBookingsRequest struct {
	ResourceID string `json:"resourceId,omitempty"`
}

type ListBookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}
