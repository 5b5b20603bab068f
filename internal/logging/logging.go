// Package logging configures the global zerolog logger from the application
// config. Everything else logs through github.com/rs/zerolog/log.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a config string to a zerolog level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Writer builds the log sink: stderr, plus a rotating file when one is configured.
func Writer(cfg config.LogConfig) io.Writer {
	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if cfg.File == "" {
		return out
	}
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(out, file)
}

// Init replaces the global logger.
func Init(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	log.Logger = zerolog.New(Writer(cfg)).With().Timestamp().Logger()
}

// SetLevel changes the global level, used when config.yml is edited at runtime.
func SetLevel(level string) {
	lvl := ParseLevel(level)
	if zerolog.GlobalLevel() != lvl {
		zerolog.SetGlobalLevel(lvl)
		log.Info().Str("level", lvl.String()).Msg("Log level changed")
	}
}
