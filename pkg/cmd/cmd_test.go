package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Run(ctx context.Context, inv *Invocation) error {
	s.runs++
	return nil
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	inner := &stubCommand{name: "volume"}
	c := Apply(inner, mw("first"), mw("second"), mw("third"))

	require.NoError(t, c.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, 1, inner.runs)
	assert.Equal(t, "volume", c.Name())
	assert.Same(t, inner, Root(c))
}

func TestHaltStopsChain(t *testing.T) {
	inner := &stubCommand{name: "volume"}
	guard := func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) error {
			return Halt()
		})
	}

	err := Apply(inner, guard).Run(context.Background(), &Invocation{})
	assert.True(t, IsHalt(err))
	assert.True(t, IsHalt(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsHalt(errors.New("other")))
	assert.Zero(t, inner.runs)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCommand{name: "volume"})
	r.Register(&stubCommand{name: "help"})
	r.Register(&stubCommand{name: "music"})

	assert.Nil(t, r.Get("missing"))
	require.NotNil(t, r.Get("music"))

	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"help", "music", "volume"}, names)
}
