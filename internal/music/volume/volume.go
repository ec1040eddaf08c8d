// Package volume decides what a volume request does to a playback queue.
package volume

import "fmt"

const (
	Min = 0
	Max = 100
)

// Queue is the part of a playback queue the resolver needs.
type Queue interface {
	Volume() float64
	SetVolume(v float64) error
}

// Request is an optional volume percentage. The zero value is an absent
// request, which is different from an explicit Percent(0).
type Request struct {
	value   float64
	present bool
}

// None returns an absent request: the caller only wants the current volume.
func None() Request { return Request{} }

// Percent returns a request for volume v.
func Percent(v float64) Request { return Request{value: v, present: true} }

// Value returns the requested percentage and whether one was given.
func (r Request) Value() (float64, bool) { return r.value, r.present }

func (r Request) String() string {
	if !r.present {
		return "none"
	}
	return fmt.Sprintf("%v%%", r.value)
}

// Kind tells which branch a resolution took.
type Kind int

const (
	ShowCurrent Kind = iota
	Rejected
	Muted
	Changed
)

func (k Kind) String() string {
	switch k {
	case ShowCurrent:
		return "show-current"
	case Rejected:
		return "rejected"
	case Muted:
		return "muted"
	case Changed:
		return "changed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of resolving a Request. Volume holds the current
// volume for ShowCurrent, the refused value for Rejected and the new volume
// for Muted and Changed.
type Outcome struct {
	Kind   Kind
	Volume float64
}

// InRange reports whether v is an acceptable volume. Both bounds are inclusive.
func InRange(v float64) bool {
	return v >= Min && v <= Max
}

// Resolve applies req to q. SetVolume is called exactly once, and only when a
// value inside [Min, Max] was requested. Its error is returned as is.
func Resolve(req Request, q Queue) (Outcome, error) {
	v, ok := req.Value()
	if !ok {
		return Outcome{Kind: ShowCurrent, Volume: q.Volume()}, nil
	}
	if !InRange(v) {
		return Outcome{Kind: Rejected, Volume: v}, nil
	}

	if err := q.SetVolume(v); err != nil {
		return Outcome{}, err
	}
	if v == 0 {
		return Outcome{Kind: Muted, Volume: 0}, nil
	}
	return Outcome{Kind: Changed, Volume: v}, nil
}
