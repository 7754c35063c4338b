package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	ConfigPathEnvVar   = "SCREEN_REGION_SELECT"
	DefaultRedrawEvery = 10
	DefaultOutline     = "#000000"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadOptions carries command-line overrides; non-zero fields win over
// both the .env file and the process environment.
type LoadOptions struct {
	DisplayOverride      string
	RedrawEveryOverride  int
	OutputFormatOverride string
	ClampOverride        *bool
}

type Config struct {
	Display           string
	RedrawEvery       int
	OutlineColor      colorful.Color
	ClampToDesktop    bool
	OutputFormat      string
	EnableFileLogging bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_REGION_SELECT env var as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	outline, err := parseOutlineColor(getEnvWithDefault("OUTLINE_COLOR", DefaultOutline))
	if err != nil {
		return nil, err
	}

	format, err := resolveOutputFormat(opts.OutputFormatOverride)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Display:           resolveDisplay(opts),
		RedrawEvery:       resolveRedrawEvery(opts),
		OutlineColor:      outline,
		ClampToDesktop:    strings.ToLower(os.Getenv("CLAMP_TO_DESKTOP")) == "true",
		OutputFormat:      format,
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}
	if opts.ClampOverride != nil {
		cfg.ClampToDesktop = *opts.ClampOverride
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveDisplay(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.DisplayOverride); override != "" {
		return override
	}
	// Empty falls through to $DISPLAY inside the X client.
	return strings.TrimSpace(os.Getenv("DISPLAY_NAME"))
}

// resolveRedrawEvery returns the motion coalescing factor. Values below 1
// are raised to 1 (redraw on every motion event).
func resolveRedrawEvery(opts LoadOptions) int {
	n := DefaultRedrawEvery
	if v := os.Getenv("REDRAW_EVERY"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = parsed
		}
	}
	if opts.RedrawEveryOverride != 0 {
		n = opts.RedrawEveryOverride
	}
	if n < 1 {
		n = 1
	}
	return n
}

func parseOutlineColor(value string) (colorful.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid OUTLINE_COLOR %q: %w", value, err)
	}
	return c, nil
}

func resolveOutputFormat(override string) (string, error) {
	value := getEnvWithDefault("OUTPUT_FORMAT", FormatText)
	if o := strings.TrimSpace(override); o != "" {
		value = o
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case FormatText, "plain":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", value)
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
