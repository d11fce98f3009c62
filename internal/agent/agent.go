// Package agent is the boundary to the external conversational model. The
// model is an untrusted collaborator: everything it returns is text that
// must be validated before it can influence a profile.
package agent

import (
	"context"
)

// Converser produces the assistant side of the dialogue for a fully built
// prompt. Implementations block for as long as the backend takes; callers
// own timeout and cancellation via ctx.
type Converser interface {
	Converse(ctx context.Context, prompt string) (string, error)
}

// Pinger is implemented by backends that can report reachability, used by
// the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
