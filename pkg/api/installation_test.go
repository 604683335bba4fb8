package api

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInstallationTrims(t *testing.T) {
	i := NewInstallation("  gnat1 ", " /opt/gnat1\t", nil)
	require.Equal(t, "gnat1", i.Name)
	require.Equal(t, "/opt/gnat1", i.Home)
}

func TestForNodeTranslatesHome(t *testing.T) {
	orig := NewInstallation("gnat1", "/opt/gnat1", map[string]string{"vendor": "adacore"})
	node := &Node{Name: "agent-1", ToolLocations: map[string]string{"gnat1": "/srv/gnat"}}

	got := orig.ForNode(node)
	require.Equal(t, "/srv/gnat", got.Home)
	require.Equal(t, "gnat1", got.Name)
	require.Equal(t, "adacore", got.Properties["vendor"])

	// the source is never mutated.
	require.Equal(t, "/opt/gnat1", orig.Home)

	require.Equal(t, "/opt/gnat1", orig.ForNode(&Node{Name: "agent-2"}).Home)
	require.Equal(t, "/opt/gnat1", orig.ForNode(nil).Home)
}

func TestForEnvironmentExpandsHome(t *testing.T) {
	orig := NewInstallation("gnat1", "${TOOLS}/gnat-$VER", nil)
	got := orig.ForEnvironment(EnvVars{"TOOLS": "/opt", "VER": "2021"})
	require.Equal(t, "/opt/gnat-2021", got.Home)
	require.Equal(t, "${TOOLS}/gnat-$VER", orig.Home)

	// unknown variables are left alone.
	require.Equal(t, "${MISSING}/gnat", NewInstallation("g", "${MISSING}/gnat", nil).ForEnvironment(EnvVars{}).Home)
}

func TestNodeThenEnvironmentCompose(t *testing.T) {
	orig := NewInstallation("gnat1", "/opt/gnat1", nil)
	node := &Node{ToolLocations: map[string]string{"gnat1": "$HOME/gnat"}}
	env := EnvVars{"HOME": "/home/ci"}

	require.Equal(t, "/home/ci/gnat", orig.ForNode(node).ForEnvironment(env).Home)
	require.Equal(t, "/home/ci/gnat", orig.ForEnvironment(env).ForNode(node).ForEnvironment(env).Home)
}

func TestBinDirIsAbsolute(t *testing.T) {
	dir, err := NewInstallation("gnat1", "relative/gnat", nil).BinDir()
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(dir))
	require.Equal(t, "bin", filepath.Base(dir))
}

func TestInstallationValidate(t *testing.T) {
	require.Error(t, NewInstallation(" ", "/opt/gnat1", nil).Validate())
	require.NoError(t, NewInstallation("gnat1", "/opt/gnat1", nil).Validate())
}
