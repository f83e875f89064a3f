package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	fileName = "apiurlfix.log"
	// DefaultMaxBytes is the size at which the previous log is rotated to apiurlfix.log.1.
	DefaultMaxBytes = 5 << 20
)

type Config struct {
	Root     string
	Dir      string // relative to Root; defaults to .apiurlfix/logs
	Debug    bool
	MaxBytes int64
}

type sink struct {
	log  *slog.Logger
	file *os.File
	path string
}

var (
	mu  sync.RWMutex
	cur = sink{log: discard()}
)

// Setup points the package logger at a JSON file under the workspace and
// returns a cleanup that closes it and falls back to discarding.
func Setup(cfg Config) (func() error, error) {
	path := logFile(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		reset()
		return nil, err
	}
	limit := cfg.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if err := rotate(path, limit); err != nil {
		reset()
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: utcTime}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	l := slog.New(slog.NewJSONHandler(f, opts)).With("pid", os.Getpid())

	mu.Lock()
	cur = sink{log: l, file: f, path: path}
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var err error
		if cur.file != nil {
			err = cur.file.Close()
		}
		cur = sink{log: discard()}
		return err
	}, nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return cur.log
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return cur.path
}

func Ready() error {
	mu.RLock()
	defer mu.RUnlock()
	if cur.file == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

func logFile(cfg Config) string {
	root := filepath.Clean(cfg.Root)
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(".apiurlfix", "logs")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Join(dir, fileName)
}

// rotate keeps a single previous generation.
func rotate(path string, limit int64) error {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.Size() < limit {
		return nil
	}
	return os.Rename(path, path+".1")
}

func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = sink{log: discard()}
}
