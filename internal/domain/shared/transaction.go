package shared

import "context"

// TransactionManager runs a function atomically: every repository call made
// with the context it passes to fn joins the same transaction, and a non-nil
// error from fn rolls all of them back.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
