package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"screen-region-select/src/config"
	"screen-region-select/src/overlay"
	"screen-region-select/src/runtimeinit"
	"screen-region-select/src/session"
)

const exitNoSelection = 2

type cliOptions struct {
	format      string
	display     string
	redrawEvery int
	clamp       bool
	verbose     bool
}

// newSelector is swapped out in tests.
var newSelector = func(cfg *config.Config) overlay.Selector {
	return overlay.NewSelector(overlay.Options{
		Display:        cfg.Display,
		RedrawEvery:    cfg.RedrawEvery,
		OutlineColor:   cfg.OutlineColor,
		ClampToDesktop: cfg.ClampToDesktop,
	})
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, session.ErrNoSelection) {
			os.Exit(exitNoSelection)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Closing the display on SIGINT/SIGTERM ends the blocking loop so the
	// server drops the grab right away.
	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()
	return runWithArgs(ctx, normalizeLegacyArgs(os.Args))
}

func runWithArgs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"region-select"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region-select",
		Short: "Drag a rectangle on the X11 desktop and print its coordinates",
		Long: "Grabs the pointer and keyboard, lets you drag a rectangle with the left\n" +
			"mouse button and prints it as \"x y width height\". Right-click cancels.\n" +
			"Exits with status 2 when no region was selected.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadOptions := config.LoadOptions{
				DisplayOverride:      opts.display,
				RedrawEveryOverride:  opts.redrawEvery,
				OutputFormatOverride: opts.format,
			}
			if cmd.Flags().Changed("clamp") {
				clamp := opts.clamp
				loadOptions.ClampOverride = &clamp
			}
			return runWithOptions(cmd, loadOptions, opts.verbose)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&opts.display, "display", "", "X display to use (default $DISPLAY)")
	cmd.Flags().IntVar(&opts.redrawEvery, "redraw-every", 0, "Redraw the outline on every Nth pointer motion")
	cmd.Flags().BoolVar(&opts.clamp, "clamp", false, "Clamp the selection to the desktop bounds")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	return cmd
}

func runWithOptions(cmd *cobra.Command, loadOptions config.LoadOptions, verbose bool) error {
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: loadOptions,
		Verbose:     verbose,
	})
	if err != nil {
		return err
	}

	selector := newSelector(cfg)
	res, err := session.Execute(cmd.Context(), session.Options{
		SelectRegion: selector.Select,
		Target:       session.StdoutTarget{Writer: cmd.OutOrStdout(), Format: cfg.OutputFormat},
	})
	if err != nil {
		if verbose && errors.Is(err, session.ErrNoSelection) {
			fmt.Fprintln(cmd.ErrOrStderr(), "[verbose] No region selected")
		}
		return err
	}

	log.Printf("Region %v selected in %v", res.Region, res.Elapsed)
	return nil
}

// normalizeLegacyArgs maps single-dash long flags (-format json) to the
// double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	long := []string{"format", "display", "redraw-every", "clamp", "verbose"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
