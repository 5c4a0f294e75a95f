package grpc

import (
	"context"
	"errors"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ErrorCodeTrailer carries the foundation error code of a failed call
const ErrorCodeTrailer = "x-error-code"

// StatusCode maps a foundation error code to a gRPC status code
func StatusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeSyntax:
		return codes.InvalidArgument
	case mdwerror.CodeAllZero, mdwerror.CodeMultipleSolutions:
		return codes.FailedPrecondition
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeStorage, mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToStatus converts err to a gRPC status error. Status errors and nil pass
// through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}

	var e *mdwerror.Error
	if errors.As(err, &e) {
		return status.Error(StatusCode(e.Code()), err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// ErrorInterceptor converts handler errors to status errors and attaches
// the foundation error code as trailer
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if code := mdwerror.GetCode(err); code != mdwerror.CodeUnknown {
			_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorCodeTrailer, code.String()))
		}
		return resp, ToStatus(err)
	}
}

// ErrorCode returns the foundation error code from a call trailer
func ErrorCode(trailer metadata.MD) mdwerror.Code {
	if values := trailer.Get(ErrorCodeTrailer); len(values) > 0 {
		if code := mdwerror.Code(values[0]); code.IsValid() {
			return code
		}
	}
	return mdwerror.CodeUnknown
}
