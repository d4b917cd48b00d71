package device

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Format identifies the sample format a stream delivers.
type Format int

const (
	FormatF32 Format = iota
	FormatI16
	FormatI32
)

func (f Format) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatI16:
		return "i16"
	case FormatI32:
		return "i32"
	}
	return "unknown"
}

// StreamConfig is the negotiated triple for one recording session.
type StreamConfig struct {
	Channels   int
	SampleRate float64
	Format     Format
}

// ConfigRange describes one supported input configuration of a device,
// used for the discovery listing.
type ConfigRange struct {
	Channels      int
	MinSampleRate float64
	MaxSampleRate float64
	Format        Format
}

// Info describes one input-capable device. Borrowed from the host audio
// subsystem; valid between Initialize and Terminate.
type Info struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	DefaultFormat     Format

	pa *portaudio.DeviceInfo
}

// Initialize starts the host audio subsystem. Must be called before any
// enumeration or stream operation; pair with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate shuts the host audio subsystem down.
func Terminate() {
	portaudio.Terminate()
}

// Inputs enumerates input-capable devices in host order.
func Inputs() ([]Info, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	var inputs []Info
	for _, d := range devices {
		if d.MaxInputChannels <= 0 {
			continue
		}
		inputs = append(inputs, Info{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			// PortAudio converts to whatever sample type the stream is
			// opened with, so input is always delivered as float32 here.
			DefaultFormat: FormatF32,
			pa:            d,
		})
	}
	return inputs, nil
}

// Match returns the first device whose name contains query,
// case-insensitively. Enumeration order decides ties.
func Match(devices []Info, query string) (Info, error) {
	q := strings.ToLower(query)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return d, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrNoMatchingDevice, query)
}

// Find enumerates input devices and returns the first match for query.
func Find(query string) (Info, error) {
	devices, err := Inputs()
	if err != nil {
		return Info{}, err
	}
	return Match(devices, query)
}

// DefaultInputConfig returns the configuration a recording session should
// open the device with. Channel count is capped at stereo.
func (d Info) DefaultInputConfig() (StreamConfig, error) {
	if d.MaxInputChannels < 1 {
		return StreamConfig{}, fmt.Errorf("%w: %s has no input channels", ErrEnumeration, d.Name)
	}
	ch := d.MaxInputChannels
	if ch > 2 {
		ch = 2
	}
	return StreamConfig{
		Channels:   ch,
		SampleRate: d.DefaultSampleRate,
		Format:     d.DefaultFormat,
	}, nil
}

var probeRates = []float64{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 192000}

// SupportedConfigs probes common sample rates per channel count and reports
// the supported ranges. Only used for the device listing.
func (d Info) SupportedConfigs() ([]ConfigRange, error) {
	if d.pa == nil {
		return nil, fmt.Errorf("%w: %s is not backed by the host", ErrEnumeration, d.Name)
	}

	maxCh := d.MaxInputChannels
	if maxCh > 2 {
		maxCh = 2
	}

	var ranges []ConfigRange
	for ch := 1; ch <= maxCh; ch++ {
		r := ConfigRange{Channels: ch, Format: FormatF32}
		for _, rate := range probeRates {
			p := portaudio.StreamParameters{
				Input: portaudio.StreamDeviceParameters{
					Device:   d.pa,
					Channels: ch,
					Latency:  d.pa.DefaultHighInputLatency,
				},
				SampleRate: rate,
			}
			if portaudio.IsFormatSupported(p, func([]float32) {}) != nil {
				continue
			}
			if r.MinSampleRate == 0 {
				r.MinSampleRate = rate
			}
			r.MaxSampleRate = rate
		}
		if r.MinSampleRate > 0 {
			ranges = append(ranges, r)
		}
	}
	return ranges, nil
}

// OpenInputStream opens a callback-driven input stream on d. onData runs on
// the host's audio thread once per filled buffer and must not block. Stream
// conditions (overflow, underflow) are reported through onErr; they do not
// stop the stream.
func (d Info) OpenInputStream(cfg StreamConfig, framesPerBuffer int, onData func([]float32), onErr func(error)) (*portaudio.Stream, error) {
	if d.pa == nil {
		return nil, fmt.Errorf("%w: %s is not backed by the host", ErrEnumeration, d.Name)
	}

	p := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   d.pa,
			Channels: cfg.Channels,
			Latency:  d.pa.DefaultLowInputLatency,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	cb := func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags&portaudio.InputOverflow != 0 {
			onErr(ErrInputOverflow)
		}
		if flags&portaudio.InputUnderflow != 0 {
			onErr(ErrInputUnderflow)
		}
		onData(in)
	}

	stream, err := portaudio.OpenStream(p, cb)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	return stream, nil
}
