package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type addrChecker interface {
	CheckAddr(addr string) bool
}

// UnaryTrustedSubnetInterceptor rejects calls to the listed methods from peers
// outside the trusted subnet.
func UnaryTrustedSubnetInterceptor(checker addrChecker, restrictedMethods []string) grpc.UnaryServerInterceptor {
	restricted := methodSet(restrictedMethods)

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := restricted[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		p, ok := peer.FromContext(ctx)
		if !ok || p.Addr == nil || !checker.CheckAddr(p.Addr.String()) {
			return nil, status.Error(codes.PermissionDenied, "untrusted client address")
		}

		return handler(ctx, req)
	}
}
