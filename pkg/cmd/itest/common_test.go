package cmd_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/gnatci/gprstep/pkg/cmd"
	"github.com/gnatci/gprstep/pkg/config"
	"github.com/gnatci/gprstep/pkg/daemon"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/tools"
)

// withHome points gprstep at a fresh home directory, optionally seeded with
// an .env.toml.
func withHome(t *testing.T, envToml string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvGprstepHomeDir, home)
	t.Setenv(config.EnvGprstepEndpoint, "")
	if envToml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(home, ".env.toml"), []byte(envToml), 0o644))
	}
	return home
}

func runCLI(args ...string) error {
	app := cli.NewApp()
	app.Name = "gprstep"
	app.Commands = cmd.RootCommands()
	app.Flags = cmd.RootFlags()
	app.HideVersion = true

	return app.Run(append([]string{"gprstep"}, args...))
}

// runAgainstDaemon starts a daemon on the current home and runs the CLI
// against it.
func runAgainstDaemon(t *testing.T, args ...string) error {
	t.Helper()

	cfg := &config.EnvConfig{}
	require.NoError(t, cfg.Load())
	cfg.Daemon.Listen = "localhost:0"

	registry, err := tools.NewRegistry(tools.NewFileStore(cfg.Dirs().ToolsFile()))
	require.NoError(t, err)

	srv, err := daemon.New(cfg, registry, launcher.NewLocal())
	require.NoError(t, err)

	go srv.Serve()                           //nolint
	defer srv.Shutdown(context.Background()) //nolint

	return runCLI(append([]string{"--endpoint", srv.Addr()}, args...)...)
}

const fakeGprbuild = `#!/bin/sh
echo "gprbuild $*" > gprbuild.invocation
echo "$PATH" > gprbuild.path
exit ${GPRBUILD_EXIT:-0}
`

// makeInstallation creates a GNAT installation whose gprbuild records its
// arguments and PATH in the working directory.
func makeInstallation(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake gprbuild is a shell script")
	}

	home := filepath.Join(t.TempDir(), "gnat")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "gprbuild"), []byte(fakeGprbuild), 0o755))
	return home
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
