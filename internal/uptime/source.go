package uptime

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var processStart = time.Now()

// Source supplies the elapsed seconds since the process started.
type Source interface {
	ElapsedSeconds() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

func (f SourceFunc) ElapsedSeconds() float64 { return f() }

// ProcessSource measures uptime from the OS-reported creation time of the
// current process, falling back to the package initialisation time.
type ProcessSource struct {
	now     func() time.Time
	started time.Time
}

// NewProcessSource looks up the process creation time once.
func NewProcessSource() *ProcessSource {
	src := &ProcessSource{now: time.Now, started: processStart}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return src
	}
	ms, err := p.CreateTime()
	if err != nil || ms <= 0 {
		return src
	}
	if created := time.UnixMilli(ms); created.Before(src.started) {
		src.started = created
	}
	return src
}

// StartedAt returns the instant uptime is measured from.
func (s *ProcessSource) StartedAt() time.Time { return s.started }

func (s *ProcessSource) ElapsedSeconds() float64 {
	elapsed := s.now().Sub(s.started).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Since formats the uptime reported by src.
func Since(src Source) (string, error) {
	return Format(src.ElapsedSeconds())
}
