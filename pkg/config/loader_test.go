package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnatci/gprstep/pkg/api"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "gprstep")
	t.Setenv(EnvGprstepHomeDir, home)
	t.Setenv(EnvGprstepEndpoint, "")
	return home
}

func TestLoadCreatesHomeAndAppliesDefaults(t *testing.T) {
	home := withHome(t)

	var cfg EnvConfig
	require.NoError(t, cfg.Load())

	require.Equal(t, home, cfg.Dirs().Home())
	require.DirExists(t, cfg.Dirs().Tools())
	require.DirExists(t, cfg.Dirs().Work())
	require.Equal(t, DefaultListenAddr, cfg.Daemon.Listen)
	require.Equal(t, StoreTOML, cfg.Registry.Store)
}

func TestLoadReadsEnvToml(t *testing.T) {
	home := withHome(t)
	require.NoError(t, os.MkdirAll(home, 0o755))

	content := `
[daemon]
listen = "0.0.0.0:9000"

[registry]
store = "leveldb"

[nodes.win-agent]
os = "windows"

[nodes.win-agent.tool_locations]
gnat1 = 'C:\GNAT\2021'

[step]
installation = "gnat1"
switches = "-j0"
`
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), []byte(content), 0o644))

	var cfg EnvConfig
	require.NoError(t, cfg.Load())

	require.Equal(t, "0.0.0.0:9000", cfg.Daemon.Listen)
	require.Equal(t, StoreLevelDB, cfg.Registry.Store)

	node := cfg.Node("win-agent")
	require.Equal(t, "win-agent", node.Name)
	require.Equal(t, api.PlatformWindows, node.Platform())
	require.Equal(t, `C:\GNAT\2021`, node.TranslateFor("gnat1", "/opt/gnat1"))

	require.Equal(t, "unknown", cfg.Node("unknown").Name)
	require.Equal(t, "gnat1", cfg.Step["installation"])
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	home := withHome(t)
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), []byte("[registry]\nstore = \"redis\"\n"), 0o644))

	var cfg EnvConfig
	require.Error(t, cfg.Load())
}

func TestEndpointFromEnvironment(t *testing.T) {
	withHome(t)
	t.Setenv(EnvGprstepEndpoint, "http://ci:8052")

	var cfg EnvConfig
	require.NoError(t, cfg.Load())
	require.Equal(t, "http://ci:8052", cfg.Client.Endpoint)
}

func TestCoalesceIntoBuildRequest(t *testing.T) {
	c := CoalescedConfig{}.
		Append(map[string]interface{}{"installation": "gnat1", "switches": "-j0"}).
		Append(nil).
		Append(map[string]interface{}{"proj": "app", "switches": "-j4"})

	v, err := c.CoalesceIntoType(reflect.TypeOf(api.BuildRequest{}))
	require.NoError(t, err)

	req := v.(*api.BuildRequest)
	require.Equal(t, "gnat1", req.InstallationName)
	require.Equal(t, "app", req.Proj)
	require.Equal(t, "-j4", req.Switches)
}
