package shared

import "context"

// Transactor runs fn inside a single store transaction. The context handed to
// fn carries the transaction; repositories called with that context join it.
// A nested call reuses the outer transaction.
//
// If fn returns an error every write made through the context is rolled back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
