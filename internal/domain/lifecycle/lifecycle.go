// Package lifecycle holds shared timing constants for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle hooks such as the database ping on start.
const DefaultTimeout = 10 * time.Second
