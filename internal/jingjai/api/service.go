package api

import (
	"context"

	"github.com/gartstein/jingjai/internal/jingjai/models"
	"google.golang.org/grpc"
)

const ServiceName = "jingjai.v1.ControlService"

// Method names of ControlService.
const (
	MethodUpsertClient            = "UpsertClient"
	MethodDeleteClient            = "DeleteClient"
	MethodGetClient               = "GetClient"
	MethodListClients             = "ListClients"
	MethodUpsertInventory         = "UpsertInventory"
	MethodDeleteInventory         = "DeleteInventory"
	MethodGetInventory            = "GetInventory"
	MethodListInventory           = "ListInventory"
	MethodAdjustInventoryQuantity = "AdjustInventoryQuantity"
	MethodListAdjustments         = "ListAdjustments"
	MethodUpsertSale              = "UpsertSale"
	MethodDeleteSale              = "DeleteSale"
	MethodGetSale                 = "GetSale"
	MethodListSales               = "ListSales"
	MethodUpsertResource          = "UpsertResource"
	MethodDeleteResource          = "DeleteResource"
	MethodGetResource             = "GetResource"
	MethodListResources           = "ListResources"
	MethodUpsertBooking           = "UpsertBooking"
	MethodDeleteBooking           = "DeleteBooking"
	MethodGetBooking              = "GetBooking"
	MethodListBookings            = "ListBookings"
)

// FullMethod returns the gRPC path of a ControlService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// MutatingMethods lists the methods that change state and therefore need
// an authenticated caller.
var MutatingMethods = []string{
	MethodUpsertClient, MethodDeleteClient,
	MethodUpsertInventory, MethodDeleteInventory, MethodAdjustInventoryQuantity,
	MethodUpsertSale, MethodDeleteSale,
	MethodUpsertResource, MethodDeleteResource,
	MethodUpsertBooking, MethodDeleteBooking,
}

// ControlServiceServer is the server API for ControlService.
type ControlServiceServer interface {
	UpsertClient(context.Context, *UpsertClientRequest) (*UpsertClientResponse, error)
	DeleteClient(context.Context, *IDRequest) (*DeleteResponse, error)
	GetClient(context.Context, *IDRequest) (*models.Client, error)
	ListClients(context.Context, *ListRequest) (*ListClientsResponse, error)

	UpsertInventory(context.Context, *UpsertInventoryRequest) (*UpsertResponse, error)
	DeleteInventory(context.Context, *IDRequest) (*DeleteResponse, error)
	GetInventory(context.Context, *IDRequest) (*models.Item, error)
	ListInventory(context.Context, *ListRequest) (*ListInventoryResponse, error)
	AdjustInventoryQuantity(context.Context, *AdjustQuantityRequest) (*AdjustQuantityResponse, error)
	ListAdjustments(context.Context, *ListAdjustmentsRequest) (*ListAdjustmentsResponse, error)

	UpsertSale(context.Context, *UpsertSaleRequest) (*UpsertResponse, error)
	DeleteSale(context.Context, *IDRequest) (*DeleteResponse, error)
	GetSale(context.Context, *IDRequest) (*models.Sale, error)
	ListSales(context.Context, *ListSalesRequest) (*ListSalesResponse, error)

	UpsertResource(context.Context, *UpsertResourceRequest) (*UpsertResponse, error)
	DeleteResource(context.Context, *IDRequest) (*DeleteResponse, error)
	GetResource(context.Context, *IDRequest) (*models.Resource, error)
	ListResources(context.Context, *ListRequest) (*ListResourcesResponse, error)

	UpsertBooking(context.Context, *UpsertBookingRequest) (*UpsertResponse, error)
	DeleteBooking(context.Context, *IDRequest) (*DeleteResponse, error)
	GetBooking(context.Context, *IDRequest) (*models.Booking, error)
	ListBookings(context.Context, *ListBookingsRequest) (*ListBookingsResponse, error)
}

// unary builds the descriptor of one request/response method.
func unary[Req, Resp any](method string, call func(ControlServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ControlServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ControlServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for ControlService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodUpsertClient, ControlServiceServer.UpsertClient),
		unary(MethodDeleteClient, ControlServiceServer.DeleteClient),
		unary(MethodGetClient, ControlServiceServer.GetClient),
		unary(MethodListClients, ControlServiceServer.ListClients),
		unary(MethodUpsertInventory, ControlServiceServer.UpsertInventory),
		unary(MethodDeleteInventory, ControlServiceServer.DeleteInventory),
		unary(MethodGetInventory, ControlServiceServer.GetInventory),
		unary(MethodListInventory, ControlServiceServer.ListInventory),
		unary(MethodAdjustInventoryQuantity, ControlServiceServer.AdjustInventoryQuantity),
		unary(MethodListAdjustments, ControlServiceServer.ListAdjustments),
		unary(MethodUpsertSale, ControlServiceServer.UpsertSale),
		unary(MethodDeleteSale, ControlServiceServer.DeleteSale),
		unary(MethodGetSale, ControlServiceServer.GetSale),
		unary(MethodListSales, ControlServiceServer.ListSales),
		unary(MethodUpsertResource, ControlServiceServer.UpsertResource),
		unary(MethodDeleteResource, ControlServiceServer.DeleteResource),
		unary(MethodGetResource, ControlServiceServer.GetResource),
		unary(MethodListResources, ControlServiceServer.ListResources),
		unary(MethodUpsertBooking, ControlServiceServer.UpsertBooking),
		unary(MethodDeleteBooking, ControlServiceServer.DeleteBooking),
		unary(MethodGetBooking, ControlServiceServer.GetBooking),
		unary(MethodListBookings, ControlServiceServer.ListBookings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jingjai/v1/control.json",
}

func RegisterControlServiceServer(s grpc.ServiceRegistrar, srv ControlServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
