package api

// Platform identifies the command-line and filesystem conventions of the
// machine a build step executes on.
type Platform int

const (
	PlatformUnix Platform = iota
	PlatformWindows
)

// PlatformOf maps a launcher's IsUnix answer to a Platform.
func PlatformOf(unix bool) Platform {
	if unix {
		return PlatformUnix
	}
	return PlatformWindows
}

func (p Platform) IsUnix() bool {
	return p == PlatformUnix
}

// ListSeparator is the separator used in PATH-like variables.
func (p Platform) ListSeparator() string {
	if p == PlatformWindows {
		return ";"
	}
	return ":"
}

// Executable returns the file name of the executable called name.
func (p Platform) Executable(name string) string {
	if p == PlatformWindows {
		return name + ".exe"
	}
	return name
}

func (p Platform) String() string {
	if p == PlatformWindows {
		return "windows"
	}
	return "unix"
}
