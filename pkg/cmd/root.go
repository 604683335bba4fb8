package cmd

import "github.com/urfave/cli/v2"

// RootCommands returns all subcommands of the gprstep CLI. Each call builds
// a fresh command tree, so flag values never leak between app runs.
func RootCommands() cli.Commands {
	return cli.Commands{
		NewBuildCommand(),
		NewToolsCommand(),
		NewDaemonCommand(),
	}
}

// RootFlags returns the global flags of the gprstep CLI.
func RootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "v",
			Usage: "verbose output (equivalent to DEBUG log level)",
		},
		&cli.BoolFlag{
			Name:  "vv",
			Usage: "super verbose output (equivalent to DEBUG log level for now, it may accommodate TRACE in the future)",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "set the daemon endpoint URI (overrides .env.toml); commands run locally when unset",
		},
	}
}
