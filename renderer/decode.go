// ABOUTME: Opens media files and picks a beep decoder by file extension
// ABOUTME: Supports mp3, wav, flac and ogg vorbis; other formats are rejected up front

// Package renderer plays playlist entries through the system audio device
// using gopxl/beep, and reports open/end/failure events to a player.EventSink.
package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var (
	// ErrUnsupportedFormat is returned for extensions no decoder handles
	ErrUnsupportedFormat = errors.New("unsupported media format")
	// ErrAudioUnavailable is returned when no audio output can be used
	ErrAudioUnavailable = errors.New("audio output unavailable")
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3":  decodeMP3,
	".wav":  decodeWAV,
	".flac": decodeFLAC,
	".ogg":  decodeVorbis,
	".oga":  decodeVorbis,
}

func decodeMP3(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
func decodeWAV(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
func decodeFLAC(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
func decodeVorbis(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }

// Supported reports whether path has an extension a decoder exists for
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]

	return ok
}

// source is a decoded file ready to stream
type source struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
}

// openSource opens path and decodes its header
func openSource(path string) (*source, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}

	streamer, format, err := decode(f)
	if err != nil {
		f.Close()

		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return &source{file: f, streamer: streamer, format: format}, nil
}

// Duration is the total length of the decoded stream
func (s *source) Duration() time.Duration {
	return s.format.SampleRate.D(s.streamer.Len())
}

// Position is the current read offset of the decoded stream
func (s *source) Position() time.Duration {
	return s.format.SampleRate.D(s.streamer.Position())
}

// Seek moves to d, clamped to the stream bounds
func (s *source) Seek(d time.Duration) error {
	n := s.format.SampleRate.N(d)
	if n < 0 {
		n = 0
	}

	if n > s.streamer.Len() {
		n = s.streamer.Len()
	}

	return s.streamer.Seek(n)
}

// Close releases the decoder and the underlying file
func (s *source) Close() error {
	err := s.streamer.Close()
	_ = s.file.Close() // Some decoders already closed it

	return err
}
