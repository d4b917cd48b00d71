package device

import (
	"errors"
	"testing"
)

func TestMatchCaseInsensitiveFirstWins(t *testing.T) {
	devices := []Info{
		{Name: "USB Mic", MaxInputChannels: 1},
		{Name: "Built-in Microphone", MaxInputChannels: 2},
	}

	got, err := Match(devices, "mic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "USB Mic" {
		t.Fatalf("expected first match %q, got %q", "USB Mic", got.Name)
	}
}

func TestMatchSkipsNonMatching(t *testing.T) {
	devices := []Info{
		{Name: "HDMI Output Loopback", MaxInputChannels: 2},
		{Name: "Built-in Microphone", MaxInputChannels: 2},
	}

	got, err := Match(devices, "MICRO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Built-in Microphone" {
		t.Fatalf("expected %q, got %q", "Built-in Microphone", got.Name)
	}
}

func TestMatchNoDevice(t *testing.T) {
	devices := []Info{
		{Name: "USB Mic", MaxInputChannels: 1},
	}

	if _, err := Match(devices, "webcam"); !errors.Is(err, ErrNoMatchingDevice) {
		t.Fatalf("expected ErrNoMatchingDevice, got %v", err)
	}
	if _, err := Match(nil, "anything"); !errors.Is(err, ErrNoMatchingDevice) {
		t.Fatalf("expected ErrNoMatchingDevice for empty list, got %v", err)
	}
}

func TestDefaultInputConfigCapsChannels(t *testing.T) {
	d := Info{Name: "Interface", MaxInputChannels: 8, DefaultSampleRate: 48000, DefaultFormat: FormatF32}

	cfg, err := d.DefaultInputConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", cfg.Channels)
	}
	if cfg.SampleRate != 48000 {
		t.Fatalf("expected sample rate 48000, got %f", cfg.SampleRate)
	}
	if cfg.Format != FormatF32 {
		t.Fatalf("expected f32 format, got %s", cfg.Format)
	}
}

func TestDefaultInputConfigNoChannels(t *testing.T) {
	d := Info{Name: "Output Only"}
	if _, err := d.DefaultInputConfig(); err == nil {
		t.Fatal("expected error for device without input channels")
	}
}
