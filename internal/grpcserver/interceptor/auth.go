package interceptor

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/patric-chuzhbe/studydesk/internal/auth"
	"github.com/patric-chuzhbe/studydesk/internal/logger"
)

type authenticator interface {
	GetUsernameFromToken(tokenString string) (string, error)
}

type AuthInterceptor struct {
	auth authenticator
}

func NewAuthInterceptor(auth authenticator) *AuthInterceptor {
	return &AuthInterceptor{auth: auth}
}

// UnaryAuthInterceptor requires a valid session token in the "authorization"
// metadata of the listed methods and puts its username into the context.
func (a *AuthInterceptor) UnaryAuthInterceptor(protectedMethods []string) grpc.UnaryServerInterceptor {
	protected := methodSet(protectedMethods)

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := protected[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeader := md.Get("authorization")
		if len(authHeader) == 0 || authHeader[0] == "" {
			return nil, status.Error(codes.Unauthenticated, "missing authorization token")
		}

		username, err := a.auth.GetUsernameFromToken(strings.TrimPrefix(authHeader[0], "Bearer "))
		if err != nil {
			logger.Log.Debugln("Error calling the `a.auth.GetUsernameFromToken()`: ", zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
		}

		return handler(context.WithValue(ctx, auth.UsernameKey, username), req)
	}
}

func methodSet(methods []string) map[string]struct{} {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return set
}
