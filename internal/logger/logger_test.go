package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(cfg, &buf)
	buf.Reset()
	t.Cleanup(func() { Init(NewConfig(), nil) })
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("err"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, Config{LogLevel: "warn"})

	Infof("quiet %d", 1)
	assert.Zero(t, buf.Len())

	Warnf("loud %d", 2)
	assert.Contains(t, buf.String(), "loud 2")
	assert.Contains(t, buf.String(), "source=logger_test.go")

	SetLevel(slog.LevelDebug)
	Debugf("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestTagFiltering(t *testing.T) {
	buf := capture(t, Config{LogLevel: "debug", EnabledTags: []string{"Paste", "media"}, DisabledTags: []string{"media"}})

	DebugTagf("paste", "kept")
	DebugTagf("media", "dropped by disable")
	DebugTagf("event", "dropped by enable list")
	Infof("untagged dropped too")

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "tag=paste")
	assert.NotContains(t, out, "dropped")
}

func TestPackageAndFileFiltering(t *testing.T) {
	buf := capture(t, Config{LogLevel: "debug", DisabledPackages: []string{"logger"}})
	Errorf("from this package")
	assert.Zero(t, buf.Len())

	buf = capture(t, Config{LogLevel: "debug", EnabledFiles: []string{"other.go"}})
	ErrorTagf("x", "wrong file")
	assert.Zero(t, buf.Len())

	buf = capture(t, Config{LogLevel: "debug", EnabledFiles: []string{"LOGGER_TEST.GO"}})
	WarnTagf("x", "right file")
	assert.Contains(t, buf.String(), "right file")
}

func TestNilOutputDiscards(t *testing.T) {
	Init(Config{LogLevel: "debug"}, nil)
	t.Cleanup(func() { Init(NewConfig(), nil) })
	assert.NotPanics(t, func() { Errorf("nowhere") })
}
