// Package delivery defines the entry points that drive the use cases.
package delivery

import "context"

// Delivery is a runnable entry point. Serve blocks until the work is done or ctx ends.
type Delivery interface {
	Serve(ctx context.Context) error
}
