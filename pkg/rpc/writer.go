package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnatci/gprstep/pkg/logging"
)

// OutputWriter is the log sink of a build step. It embeds a logger for
// step diagnostics, and carries the raw output of the build tool through
// StdoutWriter. Everything written is framed as Chunks on the underlying
// stream.
type OutputWriter struct {
	*zap.SugaredLogger
	// lk serializes writes to out; writers derived through With share it.
	lk *sync.Mutex
	pw *progressWriter

	out     io.Writer
	console io.Writer
}

// NewFileOutputWriter returns an OutputWriter that records every log entry
// and every line of build output as newline-delimited progress chunks in w,
// in addition to echoing build output on stdout.
func NewFileOutputWriter(w io.Writer) *OutputWriter {
	// progressWriter will emit log output as progress messages.
	progressWriter := &progressWriter{out: w, newline: true}

	writeSyncer := zapcore.Lock(zapcore.AddSync(progressWriter))

	// this logger has two sinks: stderr and the writeSyncer
	logger := logging.NewLogger(writeSyncer)

	ow := &OutputWriter{
		SugaredLogger: logger.Sugar(),
		lk:            new(sync.Mutex),
		out:           w,
		console:       os.Stdout,
		pw:            progressWriter,
	}

	// we need to wire this back for the lock.
	progressWriter.ow = ow
	return ow
}

// NewOutputWriter returns an OutputWriter streaming chunks into an HTTP
// response, flushing after every write.
func NewOutputWriter(w http.ResponseWriter, r *http.Request) *OutputWriter {
	w.Header().Set("Content-Type", "application/json")

	httpWriter := &writeFlusher{w: w}
	if f, ok := w.(http.Flusher); ok {
		httpWriter.f = f
	}

	progressWriter := &progressWriter{out: httpWriter}

	writeSyncer := zapcore.Lock(zapcore.AddSync(progressWriter))

	// this logger has two sinks: stderr and the writeSyncer, wired to the HTTP
	// response.
	logger := logging.NewLogger(writeSyncer).With(zap.String("req_id", r.Header.Get("X-Request-ID")))

	ow := &OutputWriter{
		SugaredLogger: logger.Sugar(),
		lk:            new(sync.Mutex),
		out:           httpWriter,
		console:       io.Discard,
		pw:            progressWriter,
	}

	// we need to wire this back for the lock.
	progressWriter.ow = ow
	return ow
}

// Discard returns an OutputWriter that drops everything.
func Discard() *OutputWriter {
	ow := &OutputWriter{
		SugaredLogger: zap.NewNop().Sugar(),
		lk:            new(sync.Mutex),
		out:           io.Discard,
		console:       io.Discard,
	}
	ow.pw = &progressWriter{ow: ow, out: io.Discard}
	return ow
}

type progressWriter struct {
	ow      *OutputWriter
	out     io.Writer
	newline bool
}

var _ io.Writer = (*progressWriter)(nil)

// Write on the progressWriter wraps the incoming write into a progress message.
func (w *progressWriter) Write(p []byte) (n int, err error) {
	if p == nil {
		return 0, nil
	}

	msg := Chunk{Type: ChunkTypeProgress, Payload: p}
	json, err := json.Marshal(msg)
	if err != nil {
		return 0, err
	}

	if w.newline {
		json = append(json, '\n')
	}

	w.ow.lk.Lock()
	defer w.ow.lk.Unlock()

	if _, err = w.out.Write(json); err != nil {
		return 0, err
	}
	return len(p), nil
}

// writeFlusher flushes the underlying HTTP response after every write, so
// that clients observe progress as it happens.
type writeFlusher struct {
	w io.Writer
	f http.Flusher
}

func (wf *writeFlusher) Write(p []byte) (int, error) {
	n, err := wf.w.Write(p)
	wf.Flush()
	return n, err
}

func (wf *writeFlusher) Flush() {
	if wf.f != nil {
		wf.f.Flush()
	}
}

// stdoutWriter implements io.Writer, echoing all writes on the console
// and piping them to the underlying progressWriter, so that they're sent to
// the client.
type stdoutWriter struct{ ow *OutputWriter }

var _ io.Writer = (*stdoutWriter)(nil)

func (sw *stdoutWriter) Write(p []byte) (n int, err error) {
	_, _ = sw.ow.console.Write(p)
	return sw.ow.pw.Write(p)
}

// StdoutWriter returns an io.Writer for the raw output of the build tool.
func (ow *OutputWriter) StdoutWriter() io.Writer {
	return &stdoutWriter{ow}
}

// With returns a new OutputWriter, replacing the SugaredLogger with the result
// from delegating to SugaredLogger.With.
func (ow *OutputWriter) With(args ...interface{}) *OutputWriter {
	return &OutputWriter{
		SugaredLogger: ow.SugaredLogger.With(args...),
		lk:            ow.lk,
		out:           ow.out,
		console:       ow.console,
		pw:            ow.pw,
	}
}

func (ow *OutputWriter) WriteProgress(b []byte) (n int, err error) {
	return ow.pw.Write(b)
}

func (ow *OutputWriter) WriteResult(res interface{}) {
	if err := ow.writeChunk(Chunk{Type: ChunkTypeResult, Payload: res}); err != nil {
		logging.S().Errorw("could not write result", "err", err)
	}
}

func (ow *OutputWriter) WriteError(message string, keysAndValues ...interface{}) {
	ow.Warnw(message, keysAndValues...)

	if len(keysAndValues) > 0 {
		b := &strings.Builder{}
		for i := 0; i+1 < len(keysAndValues); i = i + 2 {
			fmt.Fprintf(b, "%s: %v;", keysAndValues[i], keysAndValues[i+1])
		}
		if kvs := b.String(); kvs != "" {
			message = message + "; " + kvs[:len(kvs)-1]
		}
	}

	if err := ow.writeChunk(Chunk{Type: ChunkTypeError, Error: &Error{message}}); err != nil {
		logging.S().Errorw("could not write error response", "err", err)
	}
}

func (ow *OutputWriter) writeChunk(ch Chunk) error {
	json, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	if ow.pw.newline {
		json = append(json, '\n')
	}

	ow.lk.Lock()
	defer ow.lk.Unlock()

	_, err = ow.out.Write(json)
	return err
}

func (ow *OutputWriter) Flush() {
	if f, ok := ow.out.(http.Flusher); ok {
		f.Flush()
	}
}
