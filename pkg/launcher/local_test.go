package launcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestLocalExitStatus(t *testing.T) {
	skipOnWindows(t)

	l := NewLocal()
	require.True(t, l.IsUnix())

	status, err := l.Launch(context.Background(), &Proc{Cmds: []string{"/bin/sh", "-c", "exit 0"}})
	require.NoError(t, err)
	require.Equal(t, 0, status)

	status, err = l.Launch(context.Background(), &Proc{Cmds: []string{"/bin/sh", "-c", "exit 2"}})
	require.NoError(t, err)
	require.Equal(t, 2, status)
}

func TestLocalForwardsOutputEnvAndDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	var buf bytes.Buffer
	p := &Proc{
		Cmds:   []string{"/bin/sh", "-c", `printf 'dir=%s\r\n' "$(pwd)"; echo "var=$GNAT_TEST" 1>&2`},
		Env:    []string{"GNAT_TEST=yes", "PATH=/usr/bin:/bin"},
		Dir:    dir,
		Stdout: &buf,
	}

	status, err := NewLocal().Launch(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 0, status)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "var=yes\n")
	require.True(t, strings.Contains(out, "dir="+dir+"\n") || strings.Contains(out, "dir="+resolved+"\n"), out)
	require.NotContains(t, out, "\r")
}

// notifyWriter signals when the first write arrives.
type notifyWriter struct {
	once sync.Once
	ch   chan struct{}
}

func (w *notifyWriter) Write(p []byte) (int, error) {
	w.once.Do(func() { close(w.ch) })
	return len(p), nil
}

func TestLocalStreamsBeforeExit(t *testing.T) {
	skipOnWindows(t)

	w := &notifyWriter{ch: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = NewLocal().Launch(context.Background(), &Proc{
			Cmds:   []string{"/bin/sh", "-c", "echo first; sleep 2; echo second"},
			Stdout: w,
		})
	}()

	select {
	case <-w.ch:
	case <-done:
		t.Fatal("output was only delivered after the process exited")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for output")
	}
	<-done
}

func TestLocalStartFailure(t *testing.T) {
	_, err := NewLocal().Launch(context.Background(), &Proc{Cmds: []string{filepath.Join(t.TempDir(), "missing")}})
	require.Error(t, err)

	_, err = NewLocal().Launch(context.Background(), &Proc{})
	require.Error(t, err)
}

func TestLocalCancellation(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewLocal().Launch(ctx, &Proc{Cmds: []string{"/bin/sh", "-c", "exec sleep 10"}, Env: os.Environ()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalCancellationKillsChildren(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// the background sleep inherits stdout and outlives its parent shell.
	start := time.Now()
	_, err := NewLocal().Launch(ctx, &Proc{Cmds: []string{"/bin/sh", "-c", "sleep 30 & sleep 30"}, Env: os.Environ()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)
}
