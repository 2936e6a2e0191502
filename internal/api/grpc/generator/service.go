package generator

import (
	"context"

	"google.golang.org/grpc"
)

// Fully-qualified names of the service and its methods.
const (
	ServiceName            = "webbox.v1.Generator"
	GenerateFullMethodName = "/" + ServiceName + "/Generate"
	RevealFullMethodName   = "/" + ServiceName + "/Reveal"
	LaunchFullMethodName   = "/" + ServiceName + "/Launch"
)

// GeneratorServer is the server API of webbox.v1.Generator.
type GeneratorServer interface { //nolint:revive // Mirrors generated gRPC naming.
	Generate(req *GenerateRequest, stream GenerateStream) error
	Reveal(ctx context.Context, req *PathRequest) (*PathResponse, error)
	Launch(ctx context.Context, req *PathRequest) (*PathResponse, error)
}

// GenerateStream is the server side of a Generate call.
type GenerateStream interface {
	Send(ev *GenerateEvent) error
	Context() context.Context
}

// ServiceDesc registers GeneratorServer implementations with a grpc.Server.
//
//nolint:gochecknoglobals // gRPC service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GeneratorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Reveal",
			Handler:    unaryHandler(RevealFullMethodName, GeneratorServer.Reveal),
		},
		{
			MethodName: "Launch",
			Handler:    unaryHandler(LaunchFullMethodName, GeneratorServer.Launch),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Generate",
			Handler:       generateHandler,
			ServerStreams: true,
		},
	},
	Metadata: "webbox/v1/generator",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv GeneratorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type pathMethod func(GeneratorServer, context.Context, *PathRequest) (*PathResponse, error)

func unaryHandler(fullMethod string, method pathMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(PathRequest)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return method(srv.(GeneratorServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(GeneratorServer), ctx, req.(*PathRequest))
		}

		return interceptor(ctx, in, info, handler)
	}
}

func generateHandler(srv any, stream grpc.ServerStream) error {
	in := new(GenerateRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	return srv.(GeneratorServer).Generate(in, &generateServerStream{ServerStream: stream})
}

type generateServerStream struct {
	grpc.ServerStream
}

func (s *generateServerStream) Send(ev *GenerateEvent) error {
	return s.SendMsg(ev)
}
