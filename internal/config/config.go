package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/bsonflat/internal/logging"
	"github.com/danmuck/bsonflat/internal/protocol/bson"
	"github.com/danmuck/bsonflat/internal/protocol/frame"
	"github.com/pkg/errors"
)

// Config is the full bsonflat configuration.
type Config struct {
	Writer WriterConfig
	Frame  FrameConfig
	Log    LogConfig
}

type WriterConfig struct {
	// InitialCapacity is the first allocation of an auto-growing Writer.
	InitialCapacity int
	// MaxCapacity caps owned buffer growth; zero means bson.MaxLength.
	MaxCapacity int
}

type FrameConfig struct {
	MaxDocumentBytes int
}

type LogConfig struct {
	Level     string
	Timestamp bool
	NoColor   bool
	Bypass    bool
}

type fileConfig struct {
	Writer struct {
		InitialCapacity int `toml:"initial_capacity"`
		MaxCapacity     int `toml:"max_capacity"`
	} `toml:"writer"`
	Frame struct {
		MaxDocumentBytes int `toml:"max_document_bytes"`
	} `toml:"frame"`
	Log struct {
		Level     string `toml:"level"`
		Timestamp bool   `toml:"timestamp"`
		NoColor   bool   `toml:"no_color"`
		Bypass    bool   `toml:"bypass"`
	} `toml:"log"`
}

func Default() Config {
	return Config{
		Writer: WriterConfig{
			InitialCapacity: bson.DefaultInitialCapacity,
		},
		Frame: FrameConfig{
			MaxDocumentBytes: frame.DefaultLimits().MaxDocumentBytes,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Load reads a TOML file and applies every key it defines on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config load failed (%s)", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("writer", "initial_capacity") {
		cfg.Writer.InitialCapacity = raw.Writer.InitialCapacity
	}
	if meta.IsDefined("writer", "max_capacity") {
		cfg.Writer.MaxCapacity = raw.Writer.MaxCapacity
	}
	if meta.IsDefined("frame", "max_document_bytes") {
		cfg.Frame.MaxDocumentBytes = raw.Frame.MaxDocumentBytes
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("log", "bypass") {
		cfg.Log.Bypass = raw.Log.Bypass
	}

	if err := Validate(cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config %s invalid", path)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	w := cfg.Writer
	if w.InitialCapacity < bson.EmptyDocumentLength || w.InitialCapacity > bson.MaxLength {
		return errors.Errorf("writer.initial_capacity must be in [%d, %d], got %d",
			bson.EmptyDocumentLength, bson.MaxLength, w.InitialCapacity)
	}
	if w.MaxCapacity < 0 || w.MaxCapacity > bson.MaxLength {
		return errors.Errorf("writer.max_capacity out of range: %d", w.MaxCapacity)
	}
	if w.MaxCapacity > 0 && w.MaxCapacity < w.InitialCapacity {
		return errors.Errorf("writer.max_capacity %d below initial_capacity %d", w.MaxCapacity, w.InitialCapacity)
	}
	if cfg.Frame.MaxDocumentBytes < bson.EmptyDocumentLength || cfg.Frame.MaxDocumentBytes > bson.MaxLength {
		return errors.Errorf("frame.max_document_bytes out of range: %d", cfg.Frame.MaxDocumentBytes)
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return errors.Errorf("log.level unknown: %q", cfg.Log.Level)
	}
	return nil
}
