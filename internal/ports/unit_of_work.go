package ports

import "context"

// Tx is an opaque transaction handle for repositories. Infrastructure owns
// the concrete type (for example, *gorm.DB).
type Tx interface{}

// UnitOfWork defines a transaction boundary for the violation+alert pair:
// the callback returning nil commits, returning an error rolls back, so a
// reader never observes one half of the pair without the other.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
