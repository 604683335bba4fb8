// Package daemon serves installation management and build steps over HTTP.
package daemon

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gnatci/gprstep/pkg/build"
	"github.com/gnatci/gprstep/pkg/config"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/logging"
	"github.com/gnatci/gprstep/pkg/tools"
)

type Daemon struct {
	server *http.Server
	l      net.Listener
	doneCh chan struct{}

	envcfg   *config.EnvConfig
	registry *tools.Registry
	invoker  *build.Invoker
	launcher launcher.Launcher
}

// New creates a new Daemon listening on the configured address and attaches
// the following handlers:
//
// * GET /installations: lists the configured installations, marking the one
// named by the `selected` query parameter.
// * POST /installations: replaces the configured installations.
// * POST /installations/validate: checks that a directory is a GNAT installation.
// * POST /build: runs a gprbuild build step, streaming its output.
// A type-safe client for this server can be found in the `pkg/client` package.
func New(cfg *config.EnvConfig, registry *tools.Registry, l launcher.Launcher) (srv *Daemon, err error) {
	srv = &Daemon{
		envcfg:   cfg,
		registry: registry,
		invoker:  build.NewInvoker(registry),
		launcher: l,
	}

	r := mux.NewRouter()

	// Set a unique request ID.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Set("X-Request-ID", uuid.New().String()[:8])
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/installations", srv.listInstallationsHandler()).Methods("GET")
	r.HandleFunc("/installations", srv.setInstallationsHandler()).Methods("POST")
	r.HandleFunc("/installations/validate", srv.validateHomeHandler()).Methods("POST")
	r.HandleFunc("/build", srv.buildHandler()).Methods("POST")

	srv.doneCh = make(chan struct{})
	srv.server = &http.Server{
		Handler:     r,
		ReadTimeout: 600 * time.Second,
	}

	srv.l, err = net.Listen("tcp", cfg.Daemon.Listen)
	if err != nil {
		return nil, err
	}

	return srv, nil
}

// Serve starts the server and blocks until the server is closed, either
// explicitly via Shutdown, or due to a fault condition. It propagates the
// non-nil err return value from http.Serve.
func (d *Daemon) Serve() error {
	select {
	case <-d.doneCh:
		return fmt.Errorf("tried to reuse a stopped server")
	default:
	}

	logging.S().Infow("daemon listening", "addr", d.Addr())
	return d.server.Serve(d.l)
}

func (d *Daemon) Addr() string {
	return d.l.Addr().String()
}

func (d *Daemon) Port() int {
	return d.l.Addr().(*net.TCPAddr).Port
}

func (d *Daemon) Shutdown(ctx context.Context) error {
	defer close(d.doneCh)
	return d.server.Shutdown(ctx)
}
