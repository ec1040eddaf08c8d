// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord slash, CLI) is defined by adapters that wrap this.
package cmd

import (
	"context"
	"errors"
)

// Invocation carries what any runner passes to a command. Adapters set Data to
// their own context (e.g. a Discord session plus the interaction event).
type Invocation struct {
	ExecutionID string
	Args        []string
	Data        interface{}
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// ErrHalt is returned by middleware that already answered the caller and
// stopped the chain. Dispatchers should not report it as a failure.
var ErrHalt = errors.New("command halted")

// Halt returns ErrHalt.
func Halt() error { return ErrHalt }

// IsHalt reports whether err is (or wraps) ErrHalt.
func IsHalt(err error) bool { return errors.Is(err, ErrHalt) }
