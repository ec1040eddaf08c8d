package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Opener turns a track into a raw s16le 48kHz stereo PCM stream. The returned
// cleanup must be called once the stream is no longer read.
type Opener interface {
	Open(track *Track) (io.ReadCloser, func(), error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(track *Track) (io.ReadCloser, func(), error)

func (f OpenerFunc) Open(track *Track) (io.ReadCloser, func(), error) { return f(track) }

// Openers maps parser names to openers.
var Openers = map[string]Opener{
	ParserFFmpeg: OpenerFunc(ffmpegLink),
	ParserYTDLP:  OpenerFunc(ytdlpLink),
}

// AutoOpen tries the track's parser first and then every other registered
// parser, returning the first stream that opens.
func AutoOpen(track *Track) (io.ReadCloser, func(), error) {
	order := []string{track.Parser}
	for _, name := range []string{ParserYTDLP, ParserFFmpeg} {
		if name != track.Parser {
			order = append(order, name)
		}
	}

	var errs []error
	for _, name := range order {
		opener, ok := Openers[name]
		if !ok {
			continue
		}
		r, cleanup, err := opener.Open(track)
		if err == nil {
			track.Parser = name
			return r, cleanup, nil
		}
		log.Warn().Str("module", "stream").Str("parser", name).Str("track", track.URL).Err(err).Msg("parser failed, trying next")
		errs = append(errs, fmt.Errorf("parser %s: %w", name, err))
	}
	if len(errs) == 0 {
		return nil, nil, fmt.Errorf("no parser available for %s", track.URL)
	}
	return nil, nil, fmt.Errorf("all parsers failed for %s: %w", track.DisplayName(), errors.Join(errs...))
}

func ffmpegArgs(link string, seekSec float64) []string {
	args := []string{}
	if seekSec > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", seekSec))
	}
	return append(args,
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", link,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
}

func startFFmpeg(link string) (io.ReadCloser, func(), error) {
	cmd := exec.Command("ffmpeg", ffmpegArgs(link, 0)...)

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	return reader, cleanup, nil
}

func ffmpegLink(track *Track) (io.ReadCloser, func(), error) {
	return startFFmpeg(track.URL)
}

type ytdlpInfo struct {
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Formats    []struct {
		URL string `json:"url"`
	} `json:"formats"`
}

// parseYTDLPInfo extracts the media URL, title and duration from yt-dlp -j output.
func parseYTDLPInfo(output []byte) (ytdlpInfo, string, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return info, "", fmt.Errorf("json unmarshal error: %w", err)
	}

	link := strings.TrimSpace(info.URL)
	if link == "" && len(info.Formats) > 0 {
		link = strings.TrimSpace(info.Formats[0].URL)
	}
	if link == "" {
		return info, "", errors.New("empty URL returned from yt-dlp")
	}
	return info, link, nil
}

func ytdlpLink(track *Track) (io.ReadCloser, func(), error) {
	target := track.URL
	search := !strings.Contains(target, "://")
	if search {
		target = "ytsearch1:" + target
	}

	output, err := exec.Command("yt-dlp", "-j", "-f", "bestaudio", "--no-playlist", target).Output()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp get-url error: %w", err)
	}

	info, link, err := parseYTDLPInfo(output)
	if err != nil {
		return nil, nil, err
	}
	if track.Title == "" {
		track.Title = info.Title
	}
	if search && info.WebpageURL != "" {
		track.URL = info.WebpageURL
	}
	track.Duration = time.Duration(info.Duration * float64(time.Second))

	return startFFmpeg(link)
}
