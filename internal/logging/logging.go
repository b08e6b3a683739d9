// Package logging builds the zap loggers used by the feelgood command and runner.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment overrides.
const (
	EnvLogLevel = "FEELGOOD_LOG_LEVEL"
	EnvLogDev   = "FEELGOOD_LOG_DEV"
)

// Shared field names.
const (
	FieldFile        = "file"
	FieldIndex       = "index"
	FieldOrdinal     = "ordinal"
	FieldCount       = "count"
	FieldLimit       = "limit"
	FieldBytes       = "bytes"
	FieldSections    = "sections"
	FieldWidth       = "width"
	FieldLayout      = "layout"
	FieldCompression = "compression"
	FieldOutput      = "output"
)

// Profile selects the logger preset.
type Profile int

const (
	// ProfileRuntime is a JSON production logger at info level.
	ProfileRuntime Profile = iota
	// ProfileDevelopment is a console logger at debug level.
	ProfileDevelopment
)

// New builds a logger for profile. FEELGOOD_LOG_LEVEL overrides the level and
// a non-empty FEELGOOD_LOG_DEV forces the development profile.
func New(profile Profile) (*zap.Logger, error) {
	if os.Getenv(EnvLogDev) != "" {
		profile = ProfileDevelopment
	}

	var cfg zap.Config
	switch profile {
	case ProfileDevelopment:
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build(zap.AddCaller())
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(raw string) (zapcore.Level, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zapcore.InfoLevel, false
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zapcore.InfoLevel, false
	}

	return lvl, true
}
