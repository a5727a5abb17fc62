package hipstershop

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RecommendationServiceName         = "hipstershop.RecommendationService"
	RecommendationServiceListFullName = "/hipstershop.RecommendationService/ListRecommendations"
)

type RecommendationServiceServer interface {
	ListRecommendations(context.Context, *ListRecommendationsRequest) (*ListRecommendationsResponse, error)
}

type UnimplementedRecommendationServiceServer struct{}

func (UnimplementedRecommendationServiceServer) ListRecommendations(context.Context, *ListRecommendationsRequest) (*ListRecommendationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRecommendations not implemented")
}

func RegisterRecommendationServiceServer(s grpc.ServiceRegistrar, srv RecommendationServiceServer) {
	s.RegisterService(&RecommendationServiceDesc, srv)
}

func listRecommendationsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRecommendationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecommendationServiceServer).ListRecommendations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RecommendationServiceListFullName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecommendationServiceServer).ListRecommendations(ctx, req.(*ListRecommendationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var RecommendationServiceDesc = grpc.ServiceDesc{
	ServiceName: RecommendationServiceName,
	HandlerType: (*RecommendationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListRecommendations",
			Handler:    listRecommendationsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "demo.proto",
}

type RecommendationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRecommendationServiceClient expects cc to have been dialed with DialOption.
func NewRecommendationServiceClient(cc grpc.ClientConnInterface) *RecommendationServiceClient {
	return &RecommendationServiceClient{cc: cc}
}

func (c *RecommendationServiceClient) ListRecommendations(ctx context.Context, in *ListRecommendationsRequest, opts ...grpc.CallOption) (*ListRecommendationsResponse, error) {
	out := new(ListRecommendationsResponse)
	if err := c.cc.Invoke(ctx, RecommendationServiceListFullName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
