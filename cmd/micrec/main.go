package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/petems/micrec/internal/config"
	"github.com/petems/micrec/internal/device"
	"github.com/petems/micrec/internal/logging"
	"github.com/petems/micrec/internal/session"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
)

func main() {
	deviceQuery := pflag.String("device", "", "record from the first input device whose name contains this substring (case-insensitive)")
	outFile := pflag.String("file", "", "output WAV file path")
	logLevel := pflag.String("log-level", "", "override configured log level (trace|debug|info|warn|error)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logging.New("info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logging.New(level)

	if err := device.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio host")
	}
	defer device.Terminate()

	// No arguments: discovery mode, list devices and exit.
	if *deviceQuery == "" && *outFile == "" {
		if err := listInputDevices(); err != nil {
			log.Fatal().Err(err).Msg("Failed to list input devices")
		}
		return
	}

	if *deviceQuery == "" || *outFile == "" {
		log.Fatal().Msg("Both --device <name> and --file <filename.wav> are required")
	}

	dev, err := device.Find(*deviceQuery)
	if err != nil {
		log.Fatal().Err(err).Str("query", *deviceQuery).Msg("Failed to select input device")
	}

	sess, err := session.New(session.Config{
		Device:          dev,
		OutputPath:      *outFile,
		FramesPerBuffer: cfg.Audio.FramesPerBuffer,
		PollInterval:    cfg.Audio.PollInterval(),
		Logger:          log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start recording session")
	}

	fmt.Printf("Selected device: %s\n", dev.Name)
	fmt.Printf("Output file: %s\n", sess.Path())

	if err := sess.Run(); err != nil {
		log.Fatal().Err(err).Msg("Recording failed")
	}

	fmt.Printf("Saved: %s\n", sess.Path())
}

func listInputDevices() error {
	devices, err := device.Inputs()
	if err != nil {
		return err
	}

	fmt.Println("Usage: micrec --device <name> --file <filename.wav>")
	fmt.Println()
	fmt.Println("Input audio devices:")
	fmt.Println()

	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Name)

		def, defErr := d.DefaultInputConfig()
		ranges, err := d.SupportedConfigs()
		if err != nil {
			fmt.Printf("    could not probe supported configs: %v\n", err)
			continue
		}
		for _, r := range ranges {
			fmt.Printf("    channels: %d, sample rate: %.0f ~ %.0f Hz, format: %s",
				r.Channels, r.MinSampleRate, r.MaxSampleRate, r.Format)
			if defErr == nil && r.Channels == def.Channels && r.Format == def.Format &&
				def.SampleRate >= r.MinSampleRate && def.SampleRate <= r.MaxSampleRate {
				fmt.Print(" (default)")
			}
			fmt.Println()
		}
		fmt.Println()
	}
	return nil
}
