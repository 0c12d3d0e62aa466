package config

import (
	"github.com/danmuck/bsonflat/internal/logging"
	"github.com/danmuck/bsonflat/internal/protocol/bson"
	"github.com/danmuck/bsonflat/internal/protocol/frame"
	"github.com/pkg/errors"
)

// Options builds Writer options; a positive MaxCapacity installs a
// LimitAllocator over the heap.
func (c WriterConfig) Options() bson.WriterOptions {
	opts := bson.DefaultWriterOptions()
	opts.InitialCapacity = c.InitialCapacity
	if c.MaxCapacity > 0 {
		opts.Allocator = bson.LimitAllocator{Max: c.MaxCapacity}
	}
	return opts
}

func (c FrameConfig) Limits() frame.Limits {
	return frame.Limits{MaxDocumentBytes: c.MaxDocumentBytes}
}

func (c LogConfig) Settings() (logging.Settings, error) {
	lvl, ok := logging.ParseLevel(c.Level)
	if !ok {
		return logging.Settings{}, errors.Errorf("unknown log level %q", c.Level)
	}
	return logging.Settings{
		Level:     lvl,
		Timestamp: c.Timestamp,
		NoColor:   c.NoColor,
		Bypass:    c.Bypass,
	}, nil
}
