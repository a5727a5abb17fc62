package hipstershop

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ProductCatalogServiceName         = "hipstershop.ProductCatalogService"
	ProductCatalogServiceListFullName = "/hipstershop.ProductCatalogService/ListProducts"
)

type ProductCatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProductCatalogServiceClient expects cc to have been dialed with DialOption.
func NewProductCatalogServiceClient(cc grpc.ClientConnInterface) *ProductCatalogServiceClient {
	return &ProductCatalogServiceClient{cc: cc}
}

func (c *ProductCatalogServiceClient) ListProducts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	if err := c.cc.Invoke(ctx, ProductCatalogServiceListFullName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductCatalogServiceServer is the server half of ListProducts. The
// recommendation service never serves it; it exists for local stand-ins.
type ProductCatalogServiceServer interface {
	ListProducts(context.Context, *Empty) (*ListProductsResponse, error)
}

func RegisterProductCatalogServiceServer(s grpc.ServiceRegistrar, srv ProductCatalogServiceServer) {
	s.RegisterService(&ProductCatalogServiceDesc, srv)
}

func listProductsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductCatalogServiceServer).ListProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ProductCatalogServiceListFullName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductCatalogServiceServer).ListProducts(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var ProductCatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductCatalogServiceName,
	HandlerType: (*ProductCatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListProducts",
			Handler:    listProductsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "demo.proto",
}
