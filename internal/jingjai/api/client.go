package api

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"google.golang.org/grpc"
)

// Client calls ControlService over a gRPC connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpsertClient(ctx context.Context, in *UpsertClientRequest, opts ...grpc.CallOption) (*UpsertClientResponse, error) {
	return invoke[UpsertClientResponse](ctx, c, MethodUpsertClient, in, opts)
}

func (c *Client) DeleteClient(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c, MethodDeleteClient, in, opts)
}

func (c *Client) GetClient(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*models.Client, error) {
	return invoke[models.Client](ctx, c, MethodGetClient, in, opts)
}

func (c *Client) ListClients(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListClientsResponse, error) {
	return invoke[ListClientsResponse](ctx, c, MethodListClients, in, opts)
}

func (c *Client) UpsertInventory(ctx context.Context, in *UpsertInventoryRequest, opts ...grpc.CallOption) (*UpsertResponse, error) {
	return invoke[UpsertResponse](ctx, c, MethodUpsertInventory, in, opts)
}

func (c *Client) DeleteInventory(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c, MethodDeleteInventory, in, opts)
}

func (c *Client) GetInventory(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*models.Item, error) {
	return invoke[models.Item](ctx, c, MethodGetInventory, in, opts)
}

func (c *Client) ListInventory(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c, MethodListInventory, in, opts)
}

func (c *Client) AdjustInventoryQuantity(ctx context.Context, in *AdjustQuantityRequest, opts ...grpc.CallOption) (*AdjustQuantityResponse, error) {
	return invoke[AdjustQuantityResponse](ctx, c, MethodAdjustInventoryQuantity, in, opts)
}

func (c *Client) ListAdjustments(ctx context.Context, in *ListAdjustmentsRequest, opts ...grpc.CallOption) (*ListAdjustmentsResponse, error) {
	return invoke[ListAdjustmentsResponse](ctx, c, MethodListAdjustments, in, opts)
}

func (c *Client) UpsertSale(ctx context.Context, in *UpsertSaleRequest, opts ...grpc.CallOption) (*UpsertResponse, error) {
	return invoke[UpsertResponse](ctx, c, MethodUpsertSale, in, opts)
}

func (c *Client) DeleteSale(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c, MethodDeleteSale, in, opts)
}

func (c *Client) GetSale(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*models.Sale, error) {
	return invoke[models.Sale](ctx, c, MethodGetSale, in, opts)
}

func (c *Client) ListSales(ctx context.Context, in *ListSalesRequest, opts ...grpc.CallOption) (*ListSalesResponse, error) {
	return invoke[ListSalesResponse](ctx, c, MethodListSales, in, opts)
}

func (c *Client) UpsertResource(ctx context.Context, in *UpsertResourceRequest, opts ...grpc.CallOption) (*UpsertResponse, error) {
	return invoke[UpsertResponse](ctx, c, MethodUpsertResource, in, opts)
}

func (c *Client) DeleteResource(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c, MethodDeleteResource, in, opts)
}

func (c *Client) GetResource(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*models.Resource, error) {
	return invoke[models.Resource](ctx, c, MethodGetResource, in, opts)
}

func (c *Client) ListResources(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResourcesResponse, error) {
	return invoke[ListResourcesResponse](ctx, c, MethodListResources, in, opts)
}

func (c *Client) UpsertBooking(ctx context.Context, in *UpsertBookingRequest, opts ...grpc.CallOption) (*UpsertResponse, error) {
	return invoke[UpsertResponse](ctx, c, MethodUpsertBooking, in, opts)
}

func (c *Client) DeleteBooking(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c, MethodDeleteBooking, in, opts)
}

func (c *Client) GetBooking(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*models.Booking, error) {
	return invoke[models.Booking](ctx, c, MethodGetBooking, in, opts)
}

func (c *Client) ListBookings(ctx context.Context, in *ListBookingsRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	return invoke[ListBookingsResponse](ctx, c, MethodListBookings, in, opts)
}
