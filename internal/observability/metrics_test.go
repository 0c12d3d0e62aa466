package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(writerFailures.WithLabelValues("locked"))
	RecordWriterFailure("locked")
	require.Equal(t, before+1, testutil.ToFloat64(writerFailures.WithLabelValues("locked")))

	grows := testutil.ToFloat64(writerGrows)
	RecordWriterGrow()
	require.Equal(t, grows+1, testutil.ToFloat64(writerGrows))

	RecordIteratorFailure("payload")
	require.GreaterOrEqual(t, testutil.ToFloat64(iteratorFailures.WithLabelValues("payload")), 1.0)

	RecordFrameDocument("read")
	require.GreaterOrEqual(t, testutil.ToFloat64(frameDocuments.WithLabelValues("read")), 1.0)
}

func TestInitLoggerBypassWritesJSON(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := InitLogger("bsonflat-test", LoggerOptions{Level: zerolog.InfoLevel, Bypass: true, Out: &buf})
	logger.Info().Str("component", "bson").Msg("hello")
	logger.Debug().Msg("dropped")

	out := buf.String()
	require.Contains(t, out, `"app":"bsonflat-test"`)
	require.Contains(t, out, `"message":"hello"`)
	require.False(t, strings.Contains(out, "dropped"))
}

func TestInitLoggerConsoleWithoutColor(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := InitLogger("", LoggerOptions{Level: zerolog.DebugLevel, NoColor: true, Out: &buf})
	logger.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
	require.NotContains(t, buf.String(), "\x1b[")
}
