package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"

	"github.com/gnatci/gprstep/pkg/logging"
)

const (
	EnvGprstepHomeDir  = "GPRSTEP_HOME"
	EnvGprstepEndpoint = "GPRSTEP_ENDPOINT"

	DefaultListenAddr = "localhost:8052"

	StoreTOML    = "toml"
	StoreLevelDB = "leveldb"
)

func defaults() EnvConfig {
	return EnvConfig{
		Daemon:   DaemonConfig{Listen: DefaultListenAddr},
		Registry: RegistryConfig{Store: StoreTOML},
	}
}

func (e *EnvConfig) Load() error {
	// calculate home directory; use env var, or fall back to $HOME/gprstep
	// otherwise.
	var home string
	if v, ok := os.LookupEnv(EnvGprstepHomeDir); ok {
		home = v
	} else {
		v, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to obtain user home dir: %w", err)
		}
		home = filepath.Join(v, "gprstep")
	}

	switch fi, err := os.Stat(home); {
	case os.IsNotExist(err):
		logging.S().Infof("creating home directory at %s", home)
		if err := os.MkdirAll(home, 0777); err != nil {
			return fmt.Errorf("failed to create home directory at %s: %w", home, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat home directory %s: %w", home, err)
	case !fi.IsDir():
		return fmt.Errorf("home path is not a directory %s", home)
	default:
		logging.S().Debugf("using home directory: %s", home)
	}

	// ensure home and children directories exist.
	e.dirs = Directories{home}
	for _, d := range []string{
		e.dirs.Home(),
		e.dirs.Tools(),
		e.dirs.Logs(),
		e.dirs.Work(),
	} {
		if err := ensureDir(d); err != nil {
			return fmt.Errorf("failed to check/create directory %s: %w", d, err)
		}
	}

	// parse the .env.toml file, if it exists.
	f := filepath.Join(e.dirs.Home(), ".env.toml")
	if _, err := os.Stat(f); err == nil {
		if _, err = toml.DecodeFile(f, e); err != nil {
			return fmt.Errorf("found .env.toml at %s, but failed to parse: %w", f, err)
		}
		logging.S().Debugf(".env.toml loaded from: %s", f)
	} else {
		logging.S().Debugf("no .env.toml found at %s; running with defaults", f)
	}

	// apply fallbacks.
	if err := mergo.Merge(e, defaults()); err != nil {
		return fmt.Errorf("failed to apply configuration defaults: %w", err)
	}

	if v, ok := os.LookupEnv(EnvGprstepEndpoint); ok && v != "" {
		e.Client.Endpoint = v
	}

	switch e.Registry.Store {
	case StoreTOML, StoreLevelDB:
	default:
		return fmt.Errorf("unknown installation store %q; expected %q or %q", e.Registry.Store, StoreTOML, StoreLevelDB)
	}
	return nil
}

// ensureDir checks whether the specified path is a directory, and if not it
// attempts to create it.
func ensureDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		// We need to create the directory.
		return os.MkdirAll(path, os.ModePerm)
	}

	if !fi.IsDir() {
		return fmt.Errorf("path %s exists, and it is not a directory", path)
	}
	return nil
}
