package config

import "path/filepath"

type Directories struct {
	home string
}

func (d Directories) Home() string {
	return d.home
}

// ToolsFile is the TOML installation store.
func (d Directories) ToolsFile() string {
	return filepath.Join(d.home, "tools.toml")
}

// ToolsDB is the leveldb installation store.
func (d Directories) ToolsDB() string {
	return filepath.Join(d.home, "data", "tools.db")
}

// Tools is where archive-installed toolchains are unpacked.
func (d Directories) Tools() string {
	return filepath.Join(d.home, "tools")
}

func (d Directories) Logs() string {
	return filepath.Join(d.home, "data", "logs")
}

func (d Directories) Work() string {
	return filepath.Join(d.home, "data", "work")
}
