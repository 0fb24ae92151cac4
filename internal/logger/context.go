package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	adminKey
	orderKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithAdmin tags every line logged through ctx with the signed-in admin.
func WithAdmin(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, adminKey, userID)
}

// WithOrder tags every line logged through ctx with the order being touched.
// An empty id leaves ctx unchanged.
func WithOrder(ctx context.Context, orderID string) context.Context {
	if orderID == "" {
		return ctx
	}
	return context.WithValue(ctx, orderKey, orderID)
}

// ctxFields collects the request-scoped fields carried by ctx.
func ctxFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := RequestIDFrom(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if uid, ok := ctx.Value(adminKey).(uint); ok {
		fields = append(fields, zap.Uint("admin_id", uid))
	}
	if id, ok := ctx.Value(orderKey).(string); ok {
		fields = append(fields, zap.String("order_id", id))
	}
	return fields
}

// FromCtx returns the global logger with request_id, admin_id and order_id
// attached when ctx carries them.
func FromCtx(ctx context.Context) *zap.Logger {
	fields := ctxFields(ctx)
	if len(fields) == 0 {
		return L()
	}
	return L().With(fields...)
}
