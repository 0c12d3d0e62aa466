package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/bsonflat/internal/observability"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "BSONFLAT_LOG_LEVEL"
	EnvLogTimestamp = "BSONFLAT_LOG_TIMESTAMP"
	EnvLogNoColor   = "BSONFLAT_LOG_NOCOLOR"
	EnvLogBypass    = "BSONFLAT_LOG_BYPASS"
)

const appName = "bsonflat"

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Settings is the resolved logger configuration.
type Settings struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		settings := DefaultSettings(profile)
		applyEnvOverrides(&settings)
		Apply(settings)
	})
}

// Apply installs settings as the global zerolog logger. Unlike Configure it
// runs every time it is called.
func Apply(settings Settings) {
	observability.InitLogger(appName, observability.LoggerOptions{
		Level:     settings.Level,
		Timestamp: settings.Timestamp,
		NoColor:   settings.NoColor,
		Bypass:    settings.Bypass,
	})
}

func DefaultSettings(profile Profile) Settings {
	switch profile {
	case ProfileTest:
		return Settings{Level: zerolog.DebugLevel, Timestamp: false}
	default:
		return Settings{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func applyEnvOverrides(settings *Settings) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		settings.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		settings.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		settings.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		settings.Bypass = v
	}
}

// ParseLevel maps a level name to a zerolog level. ok is false for empty or
// unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
