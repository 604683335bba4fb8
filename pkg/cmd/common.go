package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/gnatci/gprstep/pkg/client"
	"github.com/gnatci/gprstep/pkg/config"
	"github.com/gnatci/gprstep/pkg/tools"
)

func loadConfig() (*config.EnvConfig, error) {
	cfg := &config.EnvConfig{}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupClient returns a client for the daemon named by --endpoint or the
// configured endpoint, or nil when commands should run locally.
func setupClient(c *cli.Context, cfg *config.EnvConfig) *client.Client {
	endpoint := c.String("endpoint")
	if endpoint == "" {
		endpoint = cfg.Client.Endpoint
	}
	if endpoint == "" {
		return nil
	}
	return client.New(endpoint)
}

// openRegistry opens the installation registry on the configured store. The
// returned function releases the store.
func openRegistry(cfg *config.EnvConfig) (*tools.Registry, func() error, error) {
	switch cfg.Registry.Store {
	case config.StoreLevelDB:
		store, err := tools.NewLevelDBStore(cfg.Dirs().ToolsDB())
		if err != nil {
			return nil, nil, err
		}
		r, err := tools.NewRegistry(store)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return r, store.Close, nil
	default:
		r, err := tools.NewRegistry(tools.NewFileStore(cfg.Dirs().ToolsFile()))
		if err != nil {
			return nil, nil, err
		}
		return r, func() error { return nil }, nil
	}
}
