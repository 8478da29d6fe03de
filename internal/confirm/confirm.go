// Package confirm defines the port through which dangerous operations wait
// for an external yes/no decision.
package confirm

import (
	"context"
	"time"
)

// Request describes the operation awaiting a decision.
type Request struct {
	// Tool is the name of the capability about to run.
	Tool string

	// Summary is a human-readable rendering of the call, typically the
	// tool name plus pretty-printed arguments.
	Summary string
}

// Confirmer is implemented by whatever front-end can put a yes/no question
// in front of the operator. Each dangerous call gets its own request;
// approvals never carry over. A nil Confirmer means no channel is attached
// and dangerous operations proceed unconfirmed.
type Confirmer interface {
	// Confirm blocks until the operator decides or ctx expires.
	// An error counts as a denial.
	Confirm(ctx context.Context, req Request) (bool, error)
}

// Func adapts a plain function to the Confirmer interface.
type Func func(ctx context.Context, req Request) (bool, error)

// Confirm implements Confirmer.
func (f Func) Confirm(ctx context.Context, req Request) (bool, error) {
	return f(ctx, req)
}

// WithTimeout wraps a Confirmer with a deadline. When the deadline passes
// without a decision the outcome is a denial; deny-by-default is the whole
// point of the timeout.
func WithTimeout(c Confirmer, timeout time.Duration) Confirmer {
	return Func(func(ctx context.Context, req Request) (bool, error) {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		ok, err := c.Confirm(waitCtx, req)
		if err != nil {
			return false, err
		}
		return ok, nil
	})
}
