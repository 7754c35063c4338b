package runtimeinit

import (
	"fmt"
	"log"

	"screen-region-select/src/config"
	"screen-region-select/src/logutil"
)

type Options struct {
	LoadOptions  config.LoadOptions
	Verbose      bool
	SetupLogging func(logutil.Options)
}

// Bootstrap loads configuration and wires up logging before any X11 work.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setup := opts.SetupLogging
	if setup == nil {
		setup = logutil.Setup
	}
	setup(logutil.Options{File: cfg.EnableFileLogging, Verbose: opts.Verbose})

	log.Printf("Config: display=%q redraw_every=%d outline=%s clamp=%v format=%s",
		cfg.Display, cfg.RedrawEvery, cfg.OutlineColor.Hex(), cfg.ClampToDesktop, cfg.OutputFormat)
	return cfg, nil
}
