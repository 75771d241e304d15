// Package grpcserver exposes the notification feed, the chatbot and the
// internal statistics over gRPC. Messages are the well-known protobuf Struct,
// ListValue and Empty types, so no generated code is needed.
package grpcserver

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/patric-chuzhbe/studydesk/internal/grpcserver/interceptor"
)

const (
	ServiceName = "studydesk.StudyDesk"

	NotificationsMethod = "/" + ServiceName + "/Notifications"
	ChatMethod          = "/" + ServiceName + "/Chat"
	InternalStatsMethod = "/" + ServiceName + "/InternalStats"
	PingMethod          = "/" + ServiceName + "/Ping"
)

// StudyDeskServer is the server API of the studydesk.StudyDesk service.
type StudyDeskServer interface {
	Notifications(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	Chat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	InternalStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Ping(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StudyDeskServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Notifications", Handler: notificationsHandler},
		{MethodName: "Chat", Handler: chatHandler},
		{MethodName: "InternalStats", Handler: internalStatsHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studydesk.proto",
}

type authenticator interface {
	GetUsernameFromToken(tokenString string) (string, error)
}

type addrChecker interface {
	CheckAddr(addr string) bool
}

// NewServer builds a gRPC server with the logging, session and trusted
// subnet interceptors and registers handler on it.
func NewServer(handler StudyDeskServer, auth authenticator, ipChecker addrChecker) *grpc.Server {
	authInterceptor := interceptor.NewAuthInterceptor(auth)

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptor.UnaryLoggingInterceptor(),
			authInterceptor.UnaryAuthInterceptor([]string{
				NotificationsMethod,
			}),
			interceptor.UnaryTrustedSubnetInterceptor(ipChecker, []string{
				InternalStatsMethod,
			}),
		),
	)
	server.RegisterService(&ServiceDesc, handler)

	return server
}

func NewGRPCServer(
	addr string,
	handler StudyDeskServer,
	auth authenticator,
	ipChecker addrChecker,
) (*grpc.Server, net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	return NewServer(handler, auth, ipChecker), lis, nil
}

func notificationsHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	unaryInterceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if unaryInterceptor == nil {
		return srv.(StudyDeskServer).Notifications(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotificationsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StudyDeskServer).Notifications(ctx, req.(*emptypb.Empty))
	}

	return unaryInterceptor(ctx, in, info, handler)
}

func chatHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	unaryInterceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if unaryInterceptor == nil {
		return srv.(StudyDeskServer).Chat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StudyDeskServer).Chat(ctx, req.(*structpb.Struct))
	}

	return unaryInterceptor(ctx, in, info, handler)
}

func internalStatsHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	unaryInterceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if unaryInterceptor == nil {
		return srv.(StudyDeskServer).InternalStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InternalStatsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StudyDeskServer).InternalStats(ctx, req.(*emptypb.Empty))
	}

	return unaryInterceptor(ctx, in, info, handler)
}

func pingHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	unaryInterceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if unaryInterceptor == nil {
		return srv.(StudyDeskServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StudyDeskServer).Ping(ctx, req.(*emptypb.Empty))
	}

	return unaryInterceptor(ctx, in, info, handler)
}
