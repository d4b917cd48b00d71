// Package wavsink writes quantized microphone samples to a 16-bit PCM WAV
// file. Writes arrive on the host's audio thread and must never block it;
// finalization happens once, on the controlling thread.
package wavsink

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const maxInt16 = 32767

// Quantize converts one float sample to 16-bit PCM: clamp to [-1, 1] so
// out-of-range driver noise cannot overflow, scale, truncate toward zero.
func Quantize(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * maxInt16)
}

// Sink owns the output file for one recording. The encoder is guarded by a
// mutex and taken exactly once at finalize; after that every write is a no-op.
type Sink struct {
	path string

	mu      sync.Mutex
	file    *os.File
	enc     *wav.Encoder
	buf     *audio.IntBuffer
	written uint64
}

// Create opens path and writes a 16-bit integer PCM WAV header for the given
// channel count and sample rate. The size fields are patched at Finalize.
func Create(path string, channels, sampleRate int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &Sink{
		path: path,
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, 16, channels, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Path returns the file the sink writes to.
func (s *Sink) Path() string { return s.path }

// WriteFloats quantizes samples in order and appends them. Called from the
// audio callback: it never blocks. If the sink is contended or already
// finalized the whole buffer is discarded. Write errors are swallowed here
// and resurface when Finalize flushes the file.
func (s *Sink) WriteFloats(samples []float32) {
	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()
	if s.enc == nil {
		return
	}

	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(Quantize(v))
	}

	if err := s.enc.Write(s.buf); err == nil {
		s.written += uint64(len(samples))
	}
}

// Finalize takes the encoder, patches the WAV size fields and closes the
// file. One-way: a finalized sink stays finalized, and calling Finalize
// again is a no-op.
func (s *Sink) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc == nil {
		return nil
	}

	enc, f := s.enc, s.file
	s.enc, s.file = nil, nil

	if s.written == 0 {
		// Force the header out so an interrupted-before-first-buffer
		// recording is still a valid, empty container.
		empty := *s.buf
		empty.Data = nil
		if err := enc.Write(&empty); err != nil {
			f.Close()
			return fmt.Errorf("failed to finalize %s: %w", s.path, err)
		}
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}

// Written reports how many samples the sink has accepted.
func (s *Sink) Written() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}
