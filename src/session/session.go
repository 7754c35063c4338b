package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"screen-region-select/src/config"
	"screen-region-select/src/screen"
)

var ErrNoSelection = errors.New("no region selected")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type RegionSelectorFunc func(ctx context.Context) (screen.Region, bool, error)

type ResultTarget interface {
	OnSuccess(res Result) error
	OnFailure(err error) error
}

type Options struct {
	SelectRegion RegionSelectorFunc
	Target       ResultTarget
	// Now is used for timestamps; nil means time.Now.
	Now func() time.Time
}

type Result struct {
	Region     screen.Region
	SelectedAt time.Time
	Elapsed    time.Duration
}

// Execute runs one selection and hands the outcome to the target.
// A session that ends without a region reports ErrNoSelection.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.SelectRegion == nil {
		return Result{}, errors.New("SelectRegion is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	start := now()
	region, ok, err := opts.SelectRegion(ctx)
	if err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}
	if !ok {
		log.Printf("SESSION: no selection")
		_ = opts.Target.OnFailure(ErrNoSelection)
		return Result{}, ErrNoSelection
	}

	end := now()
	res := Result{Region: region, SelectedAt: end, Elapsed: end.Sub(start)}
	if err := opts.Target.OnSuccess(res); err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, fmt.Errorf("deliver result: %w", err)
	}
	return res, nil
}

// Output is the serialized form of a Result.
type Output struct {
	X          int     `json:"x" yaml:"x"`
	Y          int     `json:"y" yaml:"y"`
	Width      int     `json:"width" yaml:"width"`
	Height     int     `json:"height" yaml:"height"`
	SelectedAt string  `json:"selected_at" yaml:"selected_at"`
	Duration   float64 `json:"duration_seconds" yaml:"duration_seconds"`
}

func NewOutput(res Result) Output {
	return Output{
		X:          res.Region.X,
		Y:          res.Region.Y,
		Width:      res.Region.Width,
		Height:     res.Region.Height,
		SelectedAt: res.SelectedAt.UTC().Format(time.RFC3339),
		Duration:   res.Elapsed.Seconds(),
	}
}

// StdoutTarget prints the region in one of the config output formats.
// Text format is "x y width height" on one line.
type StdoutTarget struct {
	Writer io.Writer
	Format string
}

func (t StdoutTarget) OnSuccess(res Result) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}

	switch t.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewOutput(res)); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewOutput(res)); err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}
		return enc.Close()
	case config.FormatText, "":
		_, err := fmt.Fprintln(w, res.Region.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", t.Format)
	}
	return nil
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}
