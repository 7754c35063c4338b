package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"screen-region-select/src/config"
	"screen-region-select/src/screen"
)

type recordingTarget struct {
	success  []Result
	failures []error
	err      error
}

func (r *recordingTarget) OnSuccess(res Result) error {
	r.success = append(r.success, res)
	return r.err
}

func (r *recordingTarget) OnFailure(err error) error {
	r.failures = append(r.failures, err)
	return nil
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return t0.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
	}
}

func selectorReturning(r screen.Region, ok bool, err error) RegionSelectorFunc {
	return func(ctx context.Context) (screen.Region, bool, error) { return r, ok, err }
}

func TestExecuteSuccess(t *testing.T) {
	target := &recordingTarget{}
	want := screen.Region{X: 100, Y: 100, Width: 200, Height: 150}

	res, err := Execute(context.Background(), Options{
		SelectRegion: selectorReturning(want, true, nil),
		Target:       target,
		Now:          fixedClock(),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Region != want {
		t.Fatalf("Region = %+v, want %+v", res.Region, want)
	}
	if res.Elapsed != 1500*time.Millisecond {
		t.Fatalf("Elapsed = %v", res.Elapsed)
	}
	if len(target.success) != 1 || len(target.failures) != 0 {
		t.Fatalf("target calls: success=%d failures=%d", len(target.success), len(target.failures))
	}
}

func TestExecuteNoSelection(t *testing.T) {
	target := &recordingTarget{}
	_, err := Execute(context.Background(), Options{
		SelectRegion: selectorReturning(screen.Region{}, false, nil),
		Target:       target,
	})
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if len(target.failures) != 1 || !errors.Is(target.failures[0], ErrNoSelection) {
		t.Fatalf("expected target to be told about the missing selection, got %v", target.failures)
	}
}

func TestExecuteSelectError(t *testing.T) {
	boom := errors.New("input grab failed")
	target := &recordingTarget{}
	_, err := Execute(context.Background(), Options{
		SelectRegion: selectorReturning(screen.Region{}, false, boom),
		Target:       target,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected select error, got %v", err)
	}
	if len(target.success) != 0 {
		t.Fatal("expected no success delivery")
	}
}

func TestExecuteDeliveryError(t *testing.T) {
	target := &recordingTarget{err: errors.New("broken pipe")}
	_, err := Execute(context.Background(), Options{
		SelectRegion: selectorReturning(screen.Region{X: 1, Y: 1, Width: 5, Height: 5}, true, nil),
		Target:       target,
	})
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if len(target.failures) != 1 {
		t.Fatalf("expected OnFailure after delivery error, got %d", len(target.failures))
	}
}

func TestExecuteRequiresFields(t *testing.T) {
	if _, err := Execute(context.Background(), Options{Target: &recordingTarget{}}); err == nil {
		t.Error("expected error without SelectRegion")
	}
	if _, err := Execute(context.Background(), Options{SelectRegion: selectorReturning(screen.Region{}, false, nil)}); err == nil {
		t.Error("expected error without Target")
	}
}

func sampleResult() Result {
	return Result{
		Region:     screen.Region{X: 100, Y: 100, Width: 200, Height: 150},
		SelectedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Elapsed:    2 * time.Second,
	}
}

func TestStdoutTargetText(t *testing.T) {
	var buf bytes.Buffer
	if err := (StdoutTarget{Writer: &buf, Format: config.FormatText}).OnSuccess(sampleResult()); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "100 100 200 150\n" {
		t.Fatalf("text output = %q", got)
	}
}

func TestStdoutTargetJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (StdoutTarget{Writer: &buf, Format: config.FormatJSON}).OnSuccess(sampleResult()); err != nil {
		t.Fatal(err)
	}

	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Failed to parse JSON: %v\n%s", err, buf.String())
	}
	want := Output{X: 100, Y: 100, Width: 200, Height: 150, SelectedAt: "2026-10-19T12:00:00Z", Duration: 2}
	if out != want {
		t.Fatalf("JSON output = %+v, want %+v", out, want)
	}
	if !strings.Contains(buf.String(), `"duration_seconds"`) {
		t.Fatalf("expected snake_case keys, got %s", buf.String())
	}
}

func TestStdoutTargetYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := (StdoutTarget{Writer: &buf, Format: config.FormatYAML}).OnSuccess(sampleResult()); err != nil {
		t.Fatal(err)
	}

	var out Output
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Failed to parse YAML: %v\n%s", err, buf.String())
	}
	if out.Width != 200 || out.Height != 150 || out.SelectedAt != "2026-10-19T12:00:00Z" {
		t.Fatalf("YAML output = %+v", out)
	}
}

func TestStdoutTargetUnknownFormat(t *testing.T) {
	if err := (StdoutTarget{Writer: &bytes.Buffer{}, Format: "xml"}).OnSuccess(sampleResult()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
