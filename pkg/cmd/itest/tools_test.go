package cmd_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/tools"
)

func TestToolsAddListRemove(t *testing.T) {
	home := withHome(t, "")
	gnat := makeInstallation(t)

	require.NoError(t, runCLI("tools", "add", "--property", "target=native", "gnat1", gnat))
	require.NoError(t, runCLI("tools", "add", "gnat2", "/not/here/yet"))
	require.Error(t, runCLI("tools", "add", "gnat1", gnat))
	require.NoError(t, runCLI("tools", "list", "--selected", "gnat2"))

	insts, err := tools.NewFileStore(filepath.Join(home, "tools.toml")).Load()
	require.NoError(t, err)
	require.Equal(t, []api.Installation{
		{Name: "gnat1", Home: gnat, Properties: map[string]string{"target": "native"}},
		{Name: "gnat2", Home: "/not/here/yet"},
	}, insts)

	require.NoError(t, runCLI("tools", "remove", "gnat1"))
	require.ErrorIs(t, runCLI("tools", "remove", "gnat1"), tools.ErrNotFound)

	insts, err = tools.NewFileStore(filepath.Join(home, "tools.toml")).Load()
	require.NoError(t, err)
	require.Len(t, insts, 1)
}

func TestToolsValidateAndCheck(t *testing.T) {
	withHome(t, "")
	gnat := makeInstallation(t)

	require.NoError(t, runCLI("tools", "validate", gnat))
	require.Error(t, runCLI("tools", "validate", t.TempDir()))

	require.NoError(t, runCLI("tools", "add", "gnat1", gnat))
	require.NoError(t, runCLI("tools", "check"))

	require.NoError(t, runCLI("tools", "add", "broken", t.TempDir()))
	require.Error(t, runCLI("tools", "check"))
}

func TestToolsLevelDBStore(t *testing.T) {
	home := withHome(t, "[registry]\nstore = \"leveldb\"\n")
	gnat := makeInstallation(t)

	require.NoError(t, runCLI("tools", "add", "gnat1", gnat))

	store, err := tools.NewLevelDBStore(filepath.Join(home, "data", "tools.db"))
	require.NoError(t, err)
	defer store.Close()

	insts, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, []api.Installation{{Name: "gnat1", Home: gnat}}, insts)

	require.NoFileExists(t, filepath.Join(home, "tools.toml"))
}

func TestToolsSetThroughDaemon(t *testing.T) {
	home := withHome(t, "")

	file := filepath.Join(t.TempDir(), "installations.toml")
	require.NoError(t, tools.NewFileStore(file).Save([]api.Installation{
		{Name: "gnat-2021", Home: "/opt/gnat-2021"},
		{Name: "gnat-fsf", Home: "/opt/gnat-fsf"},
	}))

	require.NoError(t, runAgainstDaemon(t, "tools", "set", file))

	insts, err := tools.NewFileStore(filepath.Join(home, "tools.toml")).Load()
	require.NoError(t, err)
	require.Len(t, insts, 2)
	require.Equal(t, "gnat-fsf", insts[1].Name)
}
