// Package v1 описывает gRPC-сервис faleproxy.v1.Proxy.
// Сообщения берутся из well-known types, поэтому сгенерированный код не нужен:
// запрос - google.protobuf.StringValue с URL, ответ - google.protobuf.Struct
// с полями success, content, title, originalUrl.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "faleproxy.v1.Proxy"
	FetchMethod = "/" + ServiceName + "/Fetch"
)

// ProxyServer - серверная часть сервиса.
type ProxyServer interface {
	Fetch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc регистрируется через grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProxyServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Fetch",
			Handler:    fetchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "faleproxy/v1/proxy.proto",
}

func fetchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProxyServer).Fetch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FetchMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProxyServer).Fetch(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client вызывает faleproxy.v1.Proxy.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Fetch запрашивает переписанную страницу по URL.
func (c *Client) Fetch(ctx context.Context, url string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FetchMethod, wrapperspb.String(url), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
