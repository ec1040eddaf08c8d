package player

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"voice-domme/internal/music/stream"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu           sync.Mutex
	channelID    string
	send         chan []byte
	disconnected bool
}

func (s *fakeSink) OpusSend() chan<- []byte { return s.send }
func (s *fakeSink) Speaking(bool) error     { return nil }
func (s *fakeSink) ChannelID() string       { return s.channelID }
func (s *fakeSink) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = true
	return nil
}

type harness struct {
	player  *Player
	sinks   []*fakeSink
	opened  []string
	started chan string
	mu      sync.Mutex
}

// newHarness builds a player whose pump blocks until stopped unless
// finishImmediately is set.
func newHarness(t *testing.T, finishImmediately bool) *harness {
	t.Helper()
	h := &harness{started: make(chan string, 16)}
	nop := zerolog.Nop()

	h.player = NewWithOptions("guild", Options{
		DefaultVolume: 80,
		Logger:        &nop,
		Opener: stream.OpenerFunc(func(track *stream.Track) (io.ReadCloser, func(), error) {
			if track.URL == "broken" {
				return nil, nil, errors.New("cannot open")
			}
			h.mu.Lock()
			h.opened = append(h.opened, track.URL)
			h.mu.Unlock()
			return io.NopCloser(bytes.NewReader(nil)), nil, nil
		}),
		Connect: func(channelID string) (Sink, error) {
			s := &fakeSink{channelID: channelID, send: make(chan []byte, 1)}
			h.mu.Lock()
			h.sinks = append(h.sinks, s)
			h.mu.Unlock()
			return s, nil
		},
		Pump: func(src io.Reader, stop <-chan struct{}, send chan<- []byte, volume func() float64) error {
			h.started <- "started"
			if finishImmediately {
				return nil
			}
			<-stop
			return nil
		},
	})
	t.Cleanup(h.player.Close)
	return h
}

func waitStarted(t *testing.T, h *harness) {
	t.Helper()
	select {
	case <-h.started:
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not start")
	}
}

func TestVolume(t *testing.T) {
	h := newHarness(t, false)
	p := h.player

	assert.Equal(t, 80.0, p.Volume())

	require.NoError(t, p.SetVolume(0))
	assert.Equal(t, 0.0, p.Volume())
	require.NoError(t, p.SetVolume(100))
	assert.Equal(t, 100.0, p.Volume())

	assert.ErrorIs(t, p.SetVolume(101), ErrVolumeOutOfRange)
	assert.ErrorIs(t, p.SetVolume(-1), ErrVolumeOutOfRange)
	assert.Equal(t, 100.0, p.Volume())
}

func TestDefaultVolumeOutOfRange(t *testing.T) {
	p := NewWithOptions("guild", Options{DefaultVolume: 500})
	assert.Equal(t, 100.0, p.Volume())
}

func TestQueueState(t *testing.T) {
	h := newHarness(t, false)
	p := h.player

	assert.False(t, p.HasActiveQueue())
	_, err := p.CurrentTrack()
	assert.ErrorIs(t, err, ErrNoTrackPlaying)

	p.Enqueue(stream.Track{URL: "a"}, stream.Track{URL: "b"})
	assert.True(t, p.HasActiveQueue())
	assert.Len(t, p.Queue(), 2)
	assert.False(t, p.IsPlaying())
}

func TestPlayNextRequiresChannel(t *testing.T) {
	h := newHarness(t, false)
	h.player.Enqueue(stream.Track{URL: "a"})

	assert.ErrorIs(t, h.player.PlayNext(""), ErrNoVoiceChannel)
	assert.Len(t, h.player.Queue(), 1)
}

func TestPlayNextAndStop(t *testing.T) {
	h := newHarness(t, false)
	p := h.player

	assert.ErrorIs(t, p.PlayNext("voice"), ErrNoTracksInQueue)

	p.Enqueue(stream.Track{URL: "broken"}, stream.Track{URL: "a"}, stream.Track{URL: "b"})
	require.NoError(t, p.PlayNext("voice"))
	waitStarted(t, h)

	cur, err := p.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, "a", cur.URL)
	assert.True(t, p.IsPlaying())
	assert.Equal(t, "voice", p.ChannelID())
	assert.Len(t, p.Queue(), 1)

	require.NoError(t, p.Skip())
	waitStarted(t, h)
	cur, err = p.CurrentTrack()
	require.NoError(t, err)
	assert.Equal(t, "b", cur.URL)
	require.Len(t, h.sinks, 1, "voice connection is reused")

	require.NoError(t, p.Stop(true))
	assert.False(t, p.IsPlaying())
	assert.False(t, p.HasActiveQueue())
	assert.Empty(t, p.ChannelID())
	assert.True(t, h.sinks[0].disconnected)

	assert.ErrorIs(t, p.Stop(false), ErrNoTrackPlaying)
}

func TestAdvancesWhenTrackEnds(t *testing.T) {
	h := newHarness(t, true)
	p := h.player

	p.Enqueue(stream.Track{URL: "a"}, stream.Track{URL: "b"})
	require.NoError(t, p.PlayNext("voice"))
	waitStarted(t, h)
	waitStarted(t, h)

	require.Eventually(t, func() bool { return !p.HasActiveQueue() }, 2*time.Second, 10*time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, h.opened)
}

func TestPumpReadsLiveVolume(t *testing.T) {
	seen := make(chan float64, 1)
	release := make(chan struct{})
	nop := zerolog.Nop()

	var p *Player
	p = NewWithOptions("guild", Options{
		DefaultVolume: 80,
		Logger:        &nop,
		Opener: stream.OpenerFunc(func(*stream.Track) (io.ReadCloser, func(), error) {
			return io.NopCloser(bytes.NewReader(nil)), nil, nil
		}),
		Connect: func(channelID string) (Sink, error) {
			return &fakeSink{channelID: channelID, send: make(chan []byte, 1)}, nil
		},
		Pump: func(src io.Reader, stop <-chan struct{}, send chan<- []byte, volume func() float64) error {
			<-release
			seen <- volume()
			<-stop
			return nil
		},
	})
	t.Cleanup(p.Close)

	p.Enqueue(stream.Track{URL: "a"})
	require.NoError(t, p.PlayNext("voice"))
	require.NoError(t, p.SetVolume(25))
	close(release)

	select {
	case v := <-seen:
		assert.Equal(t, 25.0, v)
	case <-time.After(2 * time.Second):
		t.Fatal("pump never read the volume")
	}
}

func TestStatusEmoji(t *testing.T) {
	assert.Equal(t, "▶️", StatusPlaying.StringEmoji())
	assert.Equal(t, "🔊", StatusVolume.StringEmoji())
	assert.Empty(t, PlayerStatus("other").StringEmoji())
}

type silentEncoder struct{}

func (silentEncoder) Encode([]int16, int, int) ([]byte, error) { return []byte{0}, nil }

func TestStopUnblocksStalledSource(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var cleanups int
	var mu sync.Mutex
	pumping := make(chan struct{})
	pumpErr := make(chan error, 1)
	nop := zerolog.Nop()

	p := NewWithOptions("guild", Options{
		DefaultVolume: 100,
		Logger:        &nop,
		Opener: stream.OpenerFunc(func(*stream.Track) (io.ReadCloser, func(), error) {
			return pr, func() {
				mu.Lock()
				cleanups++
				mu.Unlock()
			}, nil
		}),
		Connect: func(channelID string) (Sink, error) {
			return &fakeSink{channelID: channelID, send: make(chan []byte, 1)}, nil
		},
		Pump: func(src io.Reader, stop <-chan struct{}, send chan<- []byte, volume func() float64) error {
			close(pumping)
			err := stream.Pump(src, stop, silentEncoder{}, send, volume)
			pumpErr <- err
			return err
		},
	})

	p.Enqueue(stream.Track{URL: "a"})
	require.NoError(t, p.PlayNext("voice"))
	<-pumping

	stopped := make(chan error, 1)
	go func() { stopped <- p.Stop(true) }()

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a stalled source")
	}

	assert.NoError(t, <-pumpErr, "a stop is not a playback error")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, cleanups)
}
