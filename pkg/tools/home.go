package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnatci/gprstep/pkg/api"
)

// HomeError reports a directory that is not a GNAT installation.
type HomeError struct {
	Home string
	// Path is the missing (or non-directory) subdirectory.
	Path string
}

func (e *HomeError) Error() string {
	return fmt.Sprintf("%s is not a GNAT installation directory: %s is missing or is not a directory", e.Home, e.Path)
}

// ValidateHome checks that home has both a lib and a bin directory. The
// check is advisory and meant for configuration time; builds only check
// for the executable itself.
func ValidateHome(home string) error {
	for _, d := range []string{api.LibDirectory, api.BinDirectory} {
		p := filepath.Join(home, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			return &HomeError{Home: home, Path: p}
		}
	}
	return nil
}
