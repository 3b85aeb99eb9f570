package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/pkg/metrics"
)

// errorCodeKey trailer 中的錯誤代碼，Client 依此還原 domain.Error
const errorCodeKey = "x-error-code"

const (
	codeValidationError = "VALIDATION_ERROR"
	codeInternalError   = "INTERNAL_ERROR"
)

// validationError 請求欄位不合法
type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func errValidation(message string) error {
	return &validationError{message: message}
}

// UnaryInterceptor 將服務回傳的錯誤轉成 gRPC status，並記錄 metrics
//
// 對應:
//
//	ACCOUNT_NOT_FOUND -> NotFound
//	INVALID_AMOUNT / VALIDATION_ERROR -> InvalidArgument
//	其他領域錯誤 -> FailedPrecondition
//	非預期錯誤 -> Internal (記錄 log，不回傳細節)
func UnaryInterceptor(collector *metrics.Collector, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		result := metrics.ResultOK
		if err != nil {
			var code string
			code, err = toStatus(err)
			result = code
			if code == codeInternalError {
				log.Error("rpc failed", zap.String("method", info.FullMethod), zap.Error(err))
				err = status.Error(codes.Internal, "internal server error")
			}
			_ = grpc.SetTrailer(ctx, metadata.Pairs(errorCodeKey, code))
		}
		if collector != nil {
			collector.Observe(info.FullMethod, result, time.Since(start))
		}
		return resp, err
	}
}

// toStatus 回傳錯誤代碼與對應的 status；非預期錯誤原樣回傳供記錄
func toStatus(err error) (string, error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c := codes.FailedPrecondition
		switch domainErr.Code {
		case domain.CodeAccountNotFound:
			c = codes.NotFound
		case domain.CodeInvalidAmount:
			c = codes.InvalidArgument
		}
		return string(domainErr.Code), status.Error(c, domainErr.Message)
	}

	var validationErr *validationError
	if errors.As(err, &validationErr) {
		return codeValidationError, status.Error(codes.InvalidArgument, validationErr.message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		st := status.FromContextError(err)
		return st.Code().String(), st.Err()
	}
	if _, ok := status.FromError(err); ok {
		return status.Code(err).String(), err
	}
	return codeInternalError, err
}
