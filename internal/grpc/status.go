package grpcserver

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dbfrontend/internal/errs"
)

// toStatus maps a frontend error onto a gRPC status. Frontend messages are
// already sanitized; anything without a kind is reported generically.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	switch errs.KindOf(err) {
	case errs.KindInvalidInput:
		code = codes.InvalidArgument
	case errs.KindNotFound:
		code = codes.NotFound
	case errs.KindTimeout:
		code = codes.DeadlineExceeded
	case errs.KindConnectionFailed:
		code = codes.Unavailable
	case errs.KindDatabase:
		code = codes.Internal
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
