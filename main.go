package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/gnatci/gprstep/pkg/cmd"
	"github.com/gnatci/gprstep/pkg/logging"
)

func main() {
	app := cli.NewApp()
	app.Name = "gprstep"
	app.Usage = "run gprbuild build steps against configured GNAT installations"
	app.Description = "gprstep resolves a named GNAT installation, runs gprbuild " +
		"with the toolchain on the PATH, and reports the build outcome."
	app.Commands = cmd.RootCommands()
	app.Flags = cmd.RootFlags()
	// Disable the built-in -v flag (version), to avoid collisions with the
	// verbosity flags.
	app.HideVersion = true
	app.Before = func(c *cli.Context) error {
		return configureLogging(c)
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configureLogging(c *cli.Context) error {
	if logging.IsTerminal() {
		logging.ConsoleMode()
	}

	// The LOG_LEVEL environment variable takes precedence.
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
		logging.SetLevel(l)
		return nil
	}

	// Apply verbosity flags.
	switch {
	case c.Bool("v"):
		logging.SetLevel(zapcore.DebugLevel)
	case c.Bool("vv"):
		logging.SetLevel(zapcore.DebugLevel)
	default:
		// Do nothing; level remains at default (INFO).
	}
	return nil
}
