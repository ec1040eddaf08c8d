package cmd

// Middleware wraps a command (logging, permission checks, preconditions).
type Middleware func(Command) Command

// Apply applies middlewares so that the first in the list runs first.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
