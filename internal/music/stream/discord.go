package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"layeh.com/gopus"
)

// Encoder encodes one PCM frame into an opus packet.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

// NewOpusEncoder returns a libopus encoder for Discord voice.
func NewOpusEncoder() (Encoder, error) {
	enc, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}
	return enc, nil
}

// Pump reads PCM frames from src, applies the volume reported by volume for
// each frame, encodes them and sends the packets on send. It returns nil when
// stop is closed or src ends.
func Pump(src io.Reader, stop <-chan struct{}, enc Encoder, send chan<- []byte, volume func() float64) error {
	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if _, err := io.ReadFull(src, pcmBuf); err != nil {
			select {
			case <-stop:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}
		ApplyGain(intBuf, volume())

		packet, err := enc.Encode(intBuf, frameSize, maxOpusLen)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case send <- packet:
		case <-stop:
			return nil
		}
	}
}

// StreamToDiscord pumps src into send with a fresh opus encoder.
func StreamToDiscord(src io.Reader, stop <-chan struct{}, send chan<- []byte, volume func() float64) error {
	enc, err := NewOpusEncoder()
	if err != nil {
		return err
	}
	return Pump(src, stop, enc, send, volume)
}
