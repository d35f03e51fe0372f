package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"holdwise/internal/config"
)

var (
	mu     sync.RWMutex
	writer io.Writer = os.Stdout
)

// Init configures the global zerolog logger. When cfg.File is set, output
// goes to both stdout and a rotating file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var raw io.Writer = os.Stdout
	if cfg.File != "" {
		if w, err := openRotatingFile(cfg.File, cfg.MaxMB, cfg.KeepBackup); err == nil {
			raw = io.MultiWriter(os.Stdout, w)
		} else {
			log.Warn().Err(err).Str("path", cfg.File).Msg("log file unavailable")
		}
	}
	setWriter(raw)

	output := raw
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: raw}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer is the raw destination chosen by Init, for loggers outside zerolog.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

func setWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	writer = w
}
