package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archiver"
	"github.com/stretchr/testify/require"
)

func TestInstallArchiveNested(t *testing.T) {
	src := filepath.Join(t.TempDir(), "gnat-2021")
	makeHome(t, src)
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", "gprbuild"), []byte("#!/bin/sh\n"), 0o755))

	archive := filepath.Join(t.TempDir(), "gnat-2021.tar.gz")
	require.NoError(t, archiver.Archive([]string{src}, archive))

	dest := filepath.Join(t.TempDir(), "tools", "gnat-2021")
	home, err := InstallArchive(archive, dest)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dest, "gnat-2021"), home)
	require.FileExists(t, filepath.Join(home, "bin", "gprbuild"))
}

func TestInstallArchiveNotAToolchain(t *testing.T) {
	src := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README"), []byte("hi"), 0o644))

	archive := filepath.Join(t.TempDir(), "docs.zip")
	require.NoError(t, archiver.Archive([]string{src}, archive))

	_, err := InstallArchive(archive, filepath.Join(t.TempDir(), "dest"))
	require.Error(t, err)
}

func TestInstallArchiveRefusesNonEmptyDest(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "x"), nil, 0o644))

	_, err := InstallArchive(filepath.Join(t.TempDir(), "any.tar.gz"), dest)
	require.Error(t, err)
}
