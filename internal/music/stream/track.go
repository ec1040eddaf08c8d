package stream

import (
	"net/url"
	"strings"
	"time"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
	maxOpusLen = frameSize * channels * 2
)

const (
	ParserFFmpeg = "ffmpeg-link"
	ParserYTDLP  = "ytdlp-link"
)

// Track is a playable item in a guild queue.
type Track struct {
	URL      string
	Title    string
	Parser   string
	Duration time.Duration
}

// DisplayName returns the best human-readable name for the track.
func (t Track) DisplayName() string {
	switch {
	case t.Title != "":
		return t.Title
	case t.URL != "":
		return t.URL
	default:
		return "Unknown track"
	}
}

var pageHosts = []string{
	"youtube.com",
	"youtu.be",
	"soundcloud.com",
	"bandcamp.com",
	"vimeo.com",
}

// DetectParser picks the parser for a link: page links from known hosts need
// yt-dlp to find the media URL, anything else is handed to ffmpeg directly.
func DetectParser(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ParserYTDLP
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range pageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return ParserYTDLP
		}
	}
	return ParserFFmpeg
}

// NewTrack builds a track for link, detecting the parser when none is given.
func NewTrack(link, parser string) Track {
	link = strings.TrimSpace(link)
	if parser == "" {
		parser = DetectParser(link)
	}
	return Track{URL: link, Parser: parser}
}
