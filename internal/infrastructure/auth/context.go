package auth

import "context"

type contextKey struct{}

// WithOperator returns a copy of ctx carrying op.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, contextKey{}, op)
}

// OperatorFromContext extracts the authenticated operator from ctx.
func OperatorFromContext(ctx context.Context) (*Operator, bool) {
	op, ok := ctx.Value(contextKey{}).(*Operator)
	return op, ok && op != nil
}
