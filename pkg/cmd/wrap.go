package cmd

import "context"

// Unwrappable is implemented by wrapped commands so adapters can reach the
// underlying command (e.g. to type-assert to a provider interface).
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped replaces the Run of an inner command and delegates everything else.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }

func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Inner.Run(ctx, inv)
}

func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs run instead of c.Run.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps c until it reaches a command that is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
