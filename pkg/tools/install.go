package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archiver"
)

// InstallArchive unpacks a toolchain archive into dest and returns the
// installation home: dest itself, or the single top-level directory of the
// archive when the toolchain is nested in one.
func InstallArchive(archive, dest string) (string, error) {
	if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("destination %s is not empty", dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	if err := archiver.Unarchive(archive, dest); err != nil {
		return "", fmt.Errorf("failed to unpack %s: %w", archive, err)
	}

	if ValidateHome(dest) == nil {
		return dest, nil
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		home := filepath.Join(dest, entries[0].Name())
		if err := ValidateHome(home); err != nil {
			return "", err
		}
		return home, nil
	}
	return "", ValidateHome(dest)
}
