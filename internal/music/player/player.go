package player

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"voice-domme/internal/music/stream"
	"voice-domme/internal/music/volume"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type PlayerStatus string

const (
	StatusPlaying PlayerStatus = "Playing"
	StatusAdded   PlayerStatus = "Track(s) Added"
	StatusStopped PlayerStatus = "Playback Stopped"
	StatusVolume  PlayerStatus = "Volume Changed"
	StatusError   PlayerStatus = "Error"
)

func (status PlayerStatus) StringEmoji() string {
	m := map[PlayerStatus]string{
		StatusPlaying: "▶️",
		StatusAdded:   "🎶",
		StatusStopped: "⏹",
		StatusVolume:  "🔊",
		StatusError:   "❌",
	}
	return m[status]
}

var (
	ErrNoTrackPlaying   = errors.New("no track is currently playing")
	ErrNoTracksInQueue  = errors.New("no tracks in queue")
	ErrVolumeOutOfRange = errors.New("volume out of range")
	ErrNoVoiceChannel   = errors.New("voice channel ID is not set")
)

// Sink receives encoded opus packets for one voice channel.
type Sink interface {
	OpusSend() chan<- []byte
	Speaking(bool) error
	ChannelID() string
	Disconnect() error
}

// Connector joins a voice channel of the player's guild.
type Connector func(channelID string) (Sink, error)

// Pumper moves PCM from src to the sink until stop is closed or src ends.
type Pumper func(src io.Reader, stop <-chan struct{}, send chan<- []byte, volume func() float64) error

type Options struct {
	DefaultVolume float64
	Opener        stream.Opener
	Connect       Connector
	Pump          Pumper
	Logger        *zerolog.Logger
}

type playback struct {
	stop chan struct{}
	done chan struct{}

	releaseOnce sync.Once
	src         io.ReadCloser
	cleanup     func()
}

// release closes the source and runs its cleanup once. Closing the source
// unblocks a pump stuck in a read.
func (pb *playback) release() {
	pb.releaseOnce.Do(func() {
		pb.src.Close()
		if pb.cleanup != nil {
			pb.cleanup()
		}
	})
}

// Player holds one guild's queue, playback state and volume.
type Player struct {
	mu        sync.Mutex
	current   *stream.Track
	queue     []stream.Track
	volume    float64
	channelID string
	sink      Sink
	pb        *playback

	guildID string
	opener  stream.Opener
	connect Connector
	pump    Pumper
	log     zerolog.Logger

	PlayerStatus chan PlayerStatus
}

var _ volume.Queue = (*Player)(nil)

// New creates a player for guildID that joins voice through dg.
func New(dg *discordgo.Session, guildID string, opts Options) *Player {
	if opts.Connect == nil {
		opts.Connect = DiscordConnector(dg, guildID)
	}
	return NewWithOptions(guildID, opts)
}

// NewWithOptions creates a player without a Discord session. Connect must be set.
func NewWithOptions(guildID string, opts Options) *Player {
	if opts.Opener == nil {
		opts.Opener = stream.OpenerFunc(stream.AutoOpen)
	}
	if opts.Pump == nil {
		opts.Pump = stream.StreamToDiscord
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if !volume.InRange(opts.DefaultVolume) {
		opts.DefaultVolume = volume.Max
	}

	return &Player{
		guildID:      guildID,
		volume:       opts.DefaultVolume,
		opener:       opts.Opener,
		connect:      opts.Connect,
		pump:         opts.Pump,
		log:          logger.With().Str("module", "player").Str("guild_id", guildID).Logger(),
		PlayerStatus: make(chan PlayerStatus, 10),
	}
}

// Volume returns the playback volume in percent.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume changes the playback volume. It applies to the track that is
// already playing from the next audio frame on.
func (p *Player) SetVolume(v float64) error {
	if !volume.InRange(v) {
		return fmt.Errorf("%w: %v", ErrVolumeOutOfRange, v)
	}

	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()

	p.log.Debug().Float64("volume", v).Msg("volume set")
	p.emitStatus(StatusVolume)
	return nil
}

// Enqueue appends tracks to the queue.
func (p *Player) Enqueue(tracks ...stream.Track) {
	p.mu.Lock()
	p.queue = append(p.queue, tracks...)
	queued := len(p.queue)
	playing := p.current != nil
	p.mu.Unlock()

	p.log.Info().Int("added", len(tracks)).Int("queue_len", queued).Msg("tracks enqueued")
	if playing {
		p.emitStatus(StatusAdded)
	}
}

// PlayNext stops the current track, if any, and plays the next queued one in
// channelID. Tracks that fail to open are skipped.
func (p *Player) PlayNext(channelID string) error {
	if channelID == "" && p.ChannelID() == "" {
		return ErrNoVoiceChannel
	}
	if err := p.Stop(false); err != nil && !errors.Is(err, ErrNoTrackPlaying) {
		return err
	}

	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return ErrNoTracksInQueue
		}
		track := p.queue[0]
		p.queue = p.queue[1:]
		if channelID != "" {
			p.channelID = channelID
		}
		p.mu.Unlock()

		if err := p.startTrack(&track); err != nil {
			p.log.Warn().Err(err).Str("track", track.DisplayName()).Msg("skipping track")
			continue
		}
		return nil
	}
}

// Skip moves on to the next track in the channel the player already uses.
func (p *Player) Skip() error {
	return p.PlayNext(p.ChannelID())
}

// Stop stops playback. With exitVc the queue is cleared and the player leaves
// the voice channel.
func (p *Player) Stop(exitVc bool) error {
	p.mu.Lock()
	pb := p.pb
	p.pb = nil
	p.current = nil
	p.mu.Unlock()

	if pb != nil {
		close(pb.stop)
		pb.release()
		<-pb.done
	}

	if exitVc {
		p.mu.Lock()
		p.queue = nil
		p.channelID = ""
		sink := p.sink
		p.sink = nil
		p.mu.Unlock()

		if sink != nil {
			if err := sink.Disconnect(); err != nil {
				p.log.Warn().Err(err).Msg("voice disconnect failed")
			}
		}
	}

	if pb == nil {
		return ErrNoTrackPlaying
	}
	p.emitStatus(StatusStopped)
	return nil
}

// Close stops playback and leaves the voice channel.
func (p *Player) Close() {
	_ = p.Stop(true)
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pb != nil
}

// HasActiveQueue reports whether something is playing or waiting to play.
func (p *Player) HasActiveQueue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil || len(p.queue) > 0
}

func (p *Player) CurrentTrack() (*stream.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, ErrNoTrackPlaying
	}
	track := *p.current
	return &track, nil
}

// Queue returns a copy of the tracks waiting to play.
func (p *Player) Queue() []stream.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.queue)
}

// ChannelID returns the voice channel the player plays in.
func (p *Player) ChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channelID
}

func (p *Player) startTrack(track *stream.Track) error {
	sink, err := p.voiceSink()
	if err != nil {
		p.emitStatus(StatusError)
		return err
	}

	src, cleanup, err := p.opener.Open(track)
	if err != nil {
		p.emitStatus(StatusError)
		return fmt.Errorf("failed to create PCM stream for track: %w", err)
	}

	pb := &playback{
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		src:     src,
		cleanup: cleanup,
	}

	p.mu.Lock()
	p.current = track
	p.pb = pb
	p.mu.Unlock()

	p.log.Info().Str("track", track.DisplayName()).Str("parser", track.Parser).Msg("starting track")
	p.emitStatus(StatusPlaying)

	go p.run(track, sink, pb)
	return nil
}

func (p *Player) run(track *stream.Track, sink Sink, pb *playback) {
	_ = sink.Speaking(true)
	err := p.pump(pb.src, pb.stop, sink.OpusSend(), p.Volume)
	_ = sink.Speaking(false)
	pb.release()

	p.mu.Lock()
	finished := p.pb == pb
	if finished {
		p.pb = nil
		p.current = nil
	}
	more := len(p.queue) > 0
	p.mu.Unlock()
	close(pb.done)

	if err != nil {
		p.log.Error().Err(err).Str("track", track.DisplayName()).Msg("playback error")
		p.emitStatus(StatusError)
	}
	if !finished {
		return
	}

	p.log.Info().Str("track", track.DisplayName()).Msg("track finished")
	if !more {
		p.emitStatus(StatusStopped)
		return
	}
	if err := p.PlayNext(""); err != nil && !errors.Is(err, ErrNoTracksInQueue) {
		p.log.Error().Err(err).Msg("failed to advance queue")
	}
}

// voiceSink joins or reuses the voice connection for the current channel.
func (p *Player) voiceSink() (Sink, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channelID == "" {
		return nil, ErrNoVoiceChannel
	}
	if p.sink != nil && p.sink.ChannelID() == p.channelID {
		return p.sink, nil
	}

	sink, err := p.connect(p.channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	p.sink = sink
	p.log.Info().Str("channel_id", p.channelID).Msg("joined voice channel")
	return sink, nil
}

// emitStatus sends a status signal without blocking.
func (p *Player) emitStatus(status PlayerStatus) {
	select {
	case p.PlayerStatus <- status:
	default:
		p.log.Debug().Str("status", string(status)).Msg("player status signal dropped")
	}
}
