package api

import (
	"context"
	"time"

	"github.com/civicdesk/complaint-dashboard/session"
)

// CallTimeout bounds a single handler's remote calls
const CallTimeout = 20 * time.Second

type operatorKey struct{}

// WithCallTimeout creates a context with the remote call timeout
func WithCallTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, CallTimeout)
}

// WithOperator binds the authenticated operator to ctx
func WithOperator(ctx context.Context, op *session.Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

// OperatorFrom returns the operator bound by the auth middleware
func OperatorFrom(ctx context.Context) (*session.Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(*session.Operator)
	return op, ok && op != nil
}
