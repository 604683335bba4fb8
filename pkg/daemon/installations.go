package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/logging"
	"github.com/gnatci/gprstep/pkg/rpc"
	"github.com/gnatci/gprstep/pkg/tools"
)

func (d *Daemon) listInstallationsHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("req_id", r.Header.Get("X-Request-ID"))

		log.Debugw("handle request", "command", "installations")
		defer log.Debugw("request handled", "command", "installations")

		tgw := rpc.NewOutputWriter(w, r)
		tgw.WriteResult(d.registry.Options(r.URL.Query().Get("selected")))
	}
}

func (d *Daemon) setInstallationsHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("req_id", r.Header.Get("X-Request-ID"))

		log.Infow("handle request", "command", "set installations")
		defer log.Infow("request handled", "command", "set installations")

		tgw := rpc.NewOutputWriter(w, r)

		var insts []api.Installation
		if err := json.NewDecoder(r.Body).Decode(&insts); err != nil {
			tgw.WriteError("failed to decode request", "err", err)
			return
		}

		for _, inst := range insts {
			if strings.TrimSpace(inst.Name) == "" {
				continue
			}
			if err := inst.Validate(); err != nil {
				tgw.WriteError(fmt.Sprintf("invalid installation %q", inst.Name), "err", err)
				return
			}
		}

		if err := d.registry.SetAll(insts); err != nil {
			tgw.WriteError("failed to store installations", "err", err)
			return
		}

		tgw.WriteResult(d.registry.All())
	}
}

func (d *Daemon) validateHomeHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		tgw := rpc.NewOutputWriter(w, r)

		var req api.ValidateHomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			tgw.WriteError("failed to decode request", "err", err)
			return
		}

		if err := tools.ValidateHome(req.Home); err != nil {
			tgw.WriteError(err.Error())
			return
		}
		tgw.WriteResult(req.Home)
	}
}
