package sinks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gxo-labs/loggable/internal/logger"
	"github.com/gxo-labs/loggable/internal/sinks"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	preRecord = record.Record{Phase: record.PhasePre, Fields: []record.Field{
		{Key: record.KeyClass, Value: "Greeter"},
		{Key: record.KeyMethod, Value: "greet"},
		{Key: "name", Value: "Ada"},
	}}
	failureRecord = record.Record{Phase: record.PhasePostFailure, Fields: []record.Field{
		{Key: record.KeyClass, Value: "X"},
		{Key: record.KeyMethod, Value: "m"},
		{Key: record.KeyErrorType, Value: "errorString"},
		{Key: record.KeyErrorMessage, Value: "boom"},
	}}
)

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	s := sinks.NewLoggerSink(logger.NewLogger("info", "text", &buf))

	require.NoError(t, s.Write(context.Background(), record.LevelInfo, preRecord))
	require.NoError(t, s.Write(context.Background(), record.LevelError, failureRecord))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="class=Greeter, method=greet, name=Ada"`)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "phase=post_failure")

	assert.Panics(t, func() { sinks.NewLoggerSink(nil) })
}

func TestSlogSink_OrderedAttributes(t *testing.T) {
	var buf bytes.Buffer
	s := sinks.NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Write(context.Background(), record.LevelInfo, preRecord))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "invocation", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Greeter", entry["class"])
	assert.Equal(t, "Ada", entry["name"])

	line := buf.String()
	assert.Less(t, strings.Index(line, `"class"`), strings.Index(line, `"method"`))
	assert.Less(t, strings.Index(line, `"method"`), strings.Index(line, `"name"`))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := sinks.NewWriterSink(&buf)

	require.NoError(t, s.Write(context.Background(), record.LevelInfo, preRecord))
	require.NoError(t, s.Write(context.Background(), record.LevelError, failureRecord))

	assert.Equal(t,
		"INFO class=Greeter, method=greet, name=Ada\n"+
			"ERROR class=X, method=m, errorType=errorString, errorMessage=boom\n",
		buf.String())
	assert.NoError(t, s.Close(), "Close on a non-closer is a no-op")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterSink_Error(t *testing.T) {
	s := sinks.NewWriterSink(failingWriter{})
	err := s.Write(context.Background(), record.LevelInfo, preRecord)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriterSink_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	s := sinks.NewWriterSink(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Write(context.Background(), record.LevelInfo, preRecord)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 50)
	for _, line := range lines {
		assert.Equal(t, "INFO class=Greeter, method=greet, name=Ada", line)
	}
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := sinks.NewZapSink(zap.New(core))

	require.NoError(t, s.Write(context.Background(), record.LevelInfo, preRecord))
	require.NoError(t, s.Write(context.Background(), record.LevelError, failureRecord))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "invocation", entries[0].Message)
	assert.Equal(t, map[string]interface{}{
		"phase": "pre", "class": "Greeter", "method": "greet", "name": "Ada",
	}, entries[0].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["errorMessage"])

	keys := make([]string, 0, len(entries[0].Context))
	for _, f := range entries[0].Context {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"phase", "class", "method", "name"}, keys, "Fields keep record order")

	assert.NotPanics(t, func() {
		_ = sinks.NewZapSink(nil).Write(context.Background(), record.LevelInfo, preRecord)
	})
}

func TestSpanEventSink(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	s := sinks.NewSpanEventSink()
	ctx, span := tp.Tracer("test").Start(context.Background(), "Greeter.greet")
	require.NoError(t, s.Write(ctx, record.LevelInfo, preRecord))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	evts := spans[0].Events()
	require.Len(t, evts, 1)
	assert.Equal(t, "loggable.pre", evts[0].Name)

	attrs := make(map[string]string)
	for _, kv := range evts[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, map[string]string{"level": "INFO", "class": "Greeter", "method": "greet", "name": "Ada"}, attrs)

	// Without a recording span the write is a silent no-op.
	assert.NoError(t, s.Write(context.Background(), record.LevelInfo, preRecord))
}

func TestMemorySink(t *testing.T) {
	m := sinks.NewMemorySink()
	require.NoError(t, m.Write(context.Background(), record.LevelInfo, preRecord))
	require.NoError(t, m.Write(context.Background(), record.LevelError, failureRecord))

	assert.Equal(t, 2, m.Count())
	assert.Len(t, m.ByPhase(record.PhasePre), 1)
	assert.Len(t, m.ByPhase(record.PhasePostFailure), 1)
	assert.Empty(t, m.ByPhase(record.PhasePostSuccess))
	assert.Equal(t, record.LevelError, m.Entries()[1].Level)

	// Captured records are copies.
	rec := record.Record{Phase: record.PhasePre, Fields: []record.Field{{Key: "class", Value: "A"}}}
	require.NoError(t, m.Write(context.Background(), record.LevelInfo, rec))
	rec.Fields[0].Value = "mutated"
	assert.Equal(t, "A", m.Records()[2].Fields[0].Value)

	m.Clear()
	assert.Zero(t, m.Count())
}

func TestMultiSink(t *testing.T) {
	a := sinks.NewMemorySink()
	b := sinks.NewMemorySink()
	errA := errors.New("first failed")
	errB := errors.New("second failed")
	failA := sink.Func(func(context.Context, record.Level, record.Record) error { return errA })
	failB := sink.Func(func(context.Context, record.Level, record.Record) error { return errB })

	multi := sinks.NewMultiSink(a, nil, failA, b, failB)
	assert.Equal(t, 4, multi.Len(), "Nil members are ignored")

	err := multi.Write(context.Background(), record.LevelInfo, preRecord)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 1, a.Count(), "A failing member does not stop the others")
	assert.Equal(t, 1, b.Count())

	assert.NoError(t, sinks.NewMultiSink(a).Write(context.Background(), record.LevelInfo, preRecord))
}
