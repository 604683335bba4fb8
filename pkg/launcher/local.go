package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/msoap/byline"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/execabs"
)

// Local launches processes on this machine.
type Local struct {
	Unix bool
}

var _ Launcher = (*Local)(nil)

// NewLocal returns a Local launcher for the platform we're running on.
func NewLocal() *Local {
	return &Local{Unix: runtime.GOOS != "windows"}
}

func (l *Local) IsUnix() bool {
	return l.Unix
}

func (l *Local) Launch(ctx context.Context, p *Proc) (int, error) {
	if len(p.Cmds) == 0 {
		return -1, errors.New("no command to launch")
	}

	cmd := execabs.CommandContext(ctx, p.Cmds[0], p.Cmds[1:]...)
	cmd.Env = p.Env
	cmd.Dir = p.Dir
	prepare(cmd, p.CmdLine)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, err
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", p.Cmds[0], err)
	}

	// on cancellation, children of the process may still hold the pipes
	// open; kill the whole tree so that the pumps below see EOF.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			killTree(cmd)
		case <-done:
		}
	}()

	var out io.Writer = io.Discard
	if p.Stdout != nil {
		out = &lockedWriter{w: p.Stdout}
	}

	// both pipes must be drained before calling Wait, which closes them.
	var g errgroup.Group
	g.Go(func() error { return pump(out, stdout) })
	g.Go(func() error { return pump(out, stderr) })
	perr := g.Wait()

	err = cmd.Wait()
	close(done)
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case err != nil:
		return -1, fmt.Errorf("failed to wait for %s: %w", p.Cmds[0], err)
	case perr != nil:
		return -1, fmt.Errorf("failed to forward output of %s: %w", p.Cmds[0], perr)
	}
	return 0, nil
}

// pump forwards r to w one line at a time, normalizing CRLF line endings.
func pump(w io.Writer, r io.Reader) error {
	lr := byline.NewReader(r).MapString(func(line string) string {
		if strings.HasSuffix(line, "\r\n") {
			return line[:len(line)-2] + "\n"
		}
		return line
	})
	_, err := io.Copy(w, lr)
	return err
}

type lockedWriter struct {
	lk sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.lk.Lock()
	defer lw.lk.Unlock()
	return lw.w.Write(p)
}
