// Package timeouts centralizes the context deadlines handlers put on
// store and external calls.
//
// Tiers:
//   - Ping: connectivity checks (health endpoint)
//   - Short: single-document reads
//   - Medium: list queries and single writes
//   - Long: multi-step handlers touching several collections
//
// The outbound event broadcast deliberately has no deadline of its own
// beyond the HTTP client's; it runs off the request path.
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document reads.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for multi-collection handler flows such as
// the team-members add sequence.
func Long() time.Duration { return long }
