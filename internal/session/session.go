// Package session owns the lifecycle of one recording: configuration
// negotiation, output file creation, stream start, interrupt-driven stop
// and finalization.
package session

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/petems/micrec/internal/device"
	"github.com/petems/micrec/internal/wavsink"
)

const (
	DefaultFramesPerBuffer = 512
	DefaultPollInterval    = 100 * time.Millisecond
)

// Stream is the running capture stream. Satisfied by *portaudio.Stream.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Opener opens an input stream that delivers float32 buffers to onData on
// the audio thread and stream-level conditions to onErr.
type Opener func(cfg device.StreamConfig, framesPerBuffer int, onData func([]float32), onErr func(error)) (Stream, error)

// Config carries the collaborators for one recording session.
type Config struct {
	Device          device.Info
	OutputPath      string
	FramesPerBuffer int           // 0 means DefaultFramesPerBuffer
	PollInterval    time.Duration // 0 means DefaultPollInterval
	Logger          zerolog.Logger
	Opener          Opener // nil means the device's portaudio stream
}

// Session drives one recording from negotiated configuration to a
// finalized WAV file. Not reusable after Run returns.
type Session struct {
	log    zerolog.Logger
	dev    device.Info
	cfg    device.StreamConfig
	sink   *wavsink.Sink
	opener Opener
	frames int
	poll   time.Duration

	running atomic.Bool
}

// New negotiates the device's default input configuration and creates the
// output file. Rejects anything but 32-bit float input before touching the
// filesystem, and disambiguates the output path so an existing file is
// never overwritten.
func New(c Config) (*Session, error) {
	cfg, err := c.Device.DefaultInputConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Format != device.FormatF32 {
		return nil, fmt.Errorf("%w: %s negotiated %s", ErrUnsupportedFormat, c.Device.Name, cfg.Format)
	}

	sink, err := wavsink.Create(UniquePath(c.OutputPath), cfg.Channels, int(cfg.SampleRate))
	if err != nil {
		return nil, err
	}

	opener := c.Opener
	if opener == nil {
		dev := c.Device
		opener = func(cfg device.StreamConfig, frames int, onData func([]float32), onErr func(error)) (Stream, error) {
			return dev.OpenInputStream(cfg, frames, onData, onErr)
		}
	}
	frames := c.FramesPerBuffer
	if frames <= 0 {
		frames = DefaultFramesPerBuffer
	}
	poll := c.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	s := &Session{
		log:    c.Logger,
		dev:    c.Device,
		cfg:    cfg,
		sink:   sink,
		opener: opener,
		frames: frames,
		poll:   poll,
	}
	s.running.Store(true)
	return s, nil
}

// Path returns the file the session records to (after disambiguation).
func (s *Session) Path() string { return s.sink.Path() }

// StreamConfig returns the negotiated configuration.
func (s *Session) StreamConfig() device.StreamConfig { return s.cfg }

// Written reports how many samples the sink has accepted so far.
func (s *Session) Written() uint64 { return s.sink.Written() }

// Stop clears the running flag. Safe to call from any goroutine, any number
// of times; this is all the interrupt handler does.
func (s *Session) Stop() {
	s.running.Store(false)
}

// Run starts the stream, blocks until Stop (or SIGINT/SIGTERM) clears the
// running flag, then stops the stream and finalizes the output file.
// Stream-level errors reported by the host are logged and do not end the
// recording; a best-effort partial file beats an abort on a transient
// hardware hiccup.
func (s *Session) Run() error {
	stream, err := s.opener(s.cfg, s.frames, s.sink.WriteFloats, s.onStreamError)
	if err != nil {
		s.sink.Finalize()
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		s.sink.Finalize()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sig:
			s.Stop()
		case <-done:
		}
	}()

	fmt.Printf("Recording... (Ctrl+C to stop)\nchannels: %d, sample rate: %.0f Hz, format: %s\n",
		s.cfg.Channels, s.cfg.SampleRate, s.cfg.Format)
	s.log.Info().
		Str("device", s.dev.Name).
		Str("file", s.sink.Path()).
		Int("channels", s.cfg.Channels).
		Float64("sample_rate", s.cfg.SampleRate).
		Msg("recording started")

	for s.running.Load() {
		time.Sleep(s.poll)
	}

	s.log.Info().Msg("stopping")
	if err := stream.Stop(); err != nil {
		s.log.Error().Err(err).Msg("failed to stop stream")
	}
	if err := stream.Close(); err != nil {
		s.log.Error().Err(err).Msg("failed to close stream")
	}

	if err := s.sink.Finalize(); err != nil {
		return err
	}
	s.log.Info().Uint64("samples", s.sink.Written()).Str("file", s.sink.Path()).Msg("recording saved")
	return nil
}

// onStreamError runs on the audio thread; keep it to a log line.
func (s *Session) onStreamError(err error) {
	s.log.Warn().Err(err).Msg("stream error")
}
