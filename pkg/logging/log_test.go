package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerTeesIntoWriteSyncer(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zapcore.AddSync(&buf))

	l.Sugar().Infow("resolved installation", "name", "gnat1")
	require.Contains(t, buf.String(), "resolved installation")
	require.Contains(t, buf.String(), "gnat1")
}

func TestSetLevelFiltersTee(t *testing.T) {
	prev := Level()
	defer SetLevel(prev)

	var buf bytes.Buffer
	l := NewLogger(zapcore.AddSync(&buf))

	SetLevel(zapcore.WarnLevel)
	l.Info("hidden")
	require.Empty(t, buf.String())

	SetLevel(zapcore.DebugLevel)
	l.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}
