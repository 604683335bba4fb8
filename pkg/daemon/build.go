package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/build"
	"github.com/gnatci/gprstep/pkg/logging"
	"github.com/gnatci/gprstep/pkg/rpc"
)

func (d *Daemon) buildHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ruid := r.Header.Get("X-Request-ID")
		log := logging.S().With("req_id", ruid)

		log.Infow("handle request", "command", "build")
		defer log.Infow("request handled", "command", "build")

		tgw := rpc.NewOutputWriter(w, r)

		var req api.BuildStepRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			tgw.WriteError("failed to decode request", "err", err)
			return
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			tgw.WriteError("invalid build step configuration", "err", err)
			return
		}

		run := api.NewRun()

		// Allocate a workspace under the workdir when the caller has none.
		workspace := req.Workspace
		if workspace == "" {
			workspace = filepath.Join(d.envcfg.Dirs().Work(), run.ID)
			if err := os.MkdirAll(workspace, 0755); err != nil {
				tgw.WriteError("failed to create workspace", "err", err)
				return
			}
		}

		env := api.FromEnviron(os.Environ())
		for k, v := range req.Env {
			env[k] = v
		}

		var node *api.Node
		if req.Node != "" {
			node = d.envcfg.Node(req.Node)
		}

		bc := &build.Context{
			Run:       run,
			Workspace: workspace,
			Env:       env,
			Node:      node,
			Launcher:  d.launcher,
			Log:       tgw,
		}

		res, err := d.invoker.Invoke(r.Context(), &req.BuildRequest, bc)
		switch {
		case api.IsAbort(err):
			tgw.WriteError(err.Error())
			return
		case err != nil:
			tgw.WriteError(fmt.Sprintf("failed to launch gprbuild: %s", err))
			return
		}

		tgw.WriteResult(&api.BuildStepResponse{
			RunID:            run.ID,
			Workspace:        workspace,
			InvocationResult: *res,
		})
	}
}
