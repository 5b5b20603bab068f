package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/showtime-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestInitWithFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	file := filepath.Join(t.TempDir(), "showtime.log")

	Init(config.LogConfig{Level: "error", Format: "json", File: file})
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	log.Error().Msg("written")

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.FileExists(t, file)
}
