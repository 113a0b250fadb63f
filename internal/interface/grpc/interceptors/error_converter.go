package interceptors

import (
	"context"
	"errors"

	fvmerrors "github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// errorConverter makes sure every error leaving the server carries a gRPC status. Typed errors
// provide their own status with the ErrorInfo details, anything else that is not already a
// status becomes an INTERNAL_ERROR.
func errorConverter(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}

	var structuredErr fvmerrors.Error
	if errors.As(err, &structuredErr) {
		return nil, structuredErr
	}
	if _, ok := status.FromError(err); ok {
		return nil, err
	}
	return nil, fvmerrors.INTERNAL_ERROR.Wrap(err)
}
