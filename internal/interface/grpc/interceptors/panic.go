package interceptors

import (
	"context"
	"runtime/debug"

	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

var somethingWentWrong = errors.INTERNAL_ERROR.New("something went wrong")

// recoverPanic turns a panic of a handler into an INTERNAL_ERROR, the stack trace is only logged.
func recoverPanic(method string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	log.WithFields(log.Fields{
		"method": method,
		"stack":  string(debug.Stack()),
	}).Errorf("recovered from panic: %v", r)
	*err = somethingWentWrong
}

func unaryPanicRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer recoverPanic(info.FullMethod, &err)

		resp, err = handler(ctx, req)
		return resp, err
	}
}

func streamPanicRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any, stream grpc.ServerStream,
		info *grpc.StreamServerInfo, handler grpc.StreamHandler,
	) (err error) {
		defer recoverPanic(info.FullMethod, &err)

		err = handler(srv, stream)
		return err
	}
}
