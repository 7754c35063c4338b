package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	logFileName  = "region_select_debug.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

type Options struct {
	// File enables the rotating debug log.
	File bool
	// Dir holds the debug log. Empty means the user cache directory.
	Dir string
	// Verbose mirrors log output to stderr.
	Verbose bool
}

// Setup points the standard logger at the configured sinks. With neither
// sink enabled logs are discarded so stdout and stderr stay clean for the
// selection result.
func Setup(opts Options) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var sinks []io.Writer
	if opts.Verbose {
		sinks = append(sinks, os.Stderr)
	}
	if opts.File {
		w, err := openRotating(logPath(opts.Dir))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			sinks = append(sinks, w)
		}
	}

	switch len(sinks) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(sinks[0])
	default:
		log.SetOutput(io.MultiWriter(sinks...))
	}
}

func logPath(dir string) string {
	if dir == "" {
		if cache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(cache, "screen-region-select")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, logFileName)
}

// rotatingWriter appends to path and shifts it to path.1 .. path.N once it
// would grow past maxSizeBytes.
type rotatingWriter struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func openRotating(path string) (*rotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	w := &rotatingWriter{path: path}
	rotate(path, 0)
	if err := w.reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotatingWriter) reopen() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	return nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > maxSizeBytes {
		_ = w.f.Close()
		rotate(w.path, len(p))
		if err := w.reopen(); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

// rotate shifts archives when the base file plus pending bytes exceeds the
// limit. The oldest archive is dropped.
func rotate(path string, pending int) {
	st, err := os.Stat(path)
	if err != nil || st.Size()+int64(pending) <= maxSizeBytes {
		return
	}
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
