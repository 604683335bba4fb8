package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/build"
	"github.com/gnatci/gprstep/pkg/client"
	"github.com/gnatci/gprstep/pkg/config"
	"github.com/gnatci/gprstep/pkg/conv"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/rpc"
)

// NewBuildCommand returns the specification of the `build` command.
func NewBuildCommand() *cli.Command {
	return &cli.Command{
		Name:   "build",
		Usage:  "run gprbuild with a configured GNAT installation",
		Action: buildCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "installation",
				Aliases: []string{"i"},
				Usage:   "name of the GNAT installation to build with",
			},
			&cli.StringFlag{
				Name:    "proj",
				Aliases: []string{"P"},
				Usage:   "project file; the .gpr extension is optional",
			},
			&cli.StringFlag{
				Name:    "switches",
				Aliases: []string{"s"},
				Usage:   "additional gprbuild switches, tokenized like a shell would",
			},
			&cli.StringFlag{
				Name:    "names",
				Aliases: []string{"n"},
				Usage:   "main units to build, tokenized like a shell would",
			},
			&cli.StringFlag{
				Name:    "workspace",
				Aliases: []string{"w"},
				Usage:   "directory to run gprbuild in (local default: current directory; remote default: allocated by the daemon)",
			},
			&cli.StringFlag{
				Name:  "node",
				Usage: "node whose tool locations apply, as configured in .env.toml",
			},
			&cli.StringSliceFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "`KEY=VALUE` added to the build environment",
			},
		},
	}
}

// stepFlags maps command line flags to build step fields.
var stepFlags = map[string]string{
	"installation": "installation",
	"proj":         "proj",
	"switches":     "switches",
	"names":        "names",
}

func buildCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := buildRequest(c, cfg)
	if err != nil {
		return err
	}

	env, err := conv.ParseKeyValues(c.StringSlice("env"))
	if err != nil {
		return fmt.Errorf("failed while parsing build environment: %w", err)
	}

	if cl := setupClient(c, cfg); cl != nil {
		defer cl.Close()
		return buildRemote(c, cl, req, env)
	}
	return buildLocal(c, cfg, req, env)
}

// buildRequest coalesces the [step] defaults of .env.toml with the flags
// given on the command line.
func buildRequest(c *cli.Context, cfg *config.EnvConfig) (*api.BuildRequest, error) {
	flags := make(map[string]interface{}, len(stepFlags))
	for flag, field := range stepFlags {
		if c.IsSet(flag) {
			flags[field] = c.String(flag)
		}
	}

	v, err := config.CoalescedConfig{}.
		Append(cfg.Step).
		Append(flags).
		CoalesceIntoType(reflect.TypeOf(api.BuildRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to process build step configuration: %w", err)
	}

	req := v.(*api.BuildRequest)
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build step configuration: %w", err)
	}
	return req, nil
}

func buildLocal(c *cli.Context, cfg *config.EnvConfig, req *api.BuildRequest, extra map[string]string) error {
	registry, closeStore, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint

	workspace := c.String("workspace")
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return fmt.Errorf("could not determine current working dir: %w", err)
		}
	}

	env := api.FromEnviron(os.Environ())
	for k, v := range extra {
		env[k] = v
	}

	var node *api.Node
	if name := c.String("node"); name != "" {
		node = cfg.Node(name)
	}

	run := api.NewRun()

	// keep a copy of the build log under the logs directory.
	logfile, err := os.Create(filepath.Join(cfg.Dirs().Logs(), run.ID+".log"))
	if err != nil {
		return fmt.Errorf("failed to create build log: %w", err)
	}
	defer logfile.Close()

	bc := &build.Context{
		Run:       run,
		Workspace: workspace,
		Env:       env,
		Node:      node,
		Launcher:  launcher.NewLocal(),
		Log:       rpc.NewFileOutputWriter(logfile),
	}

	_, err = build.NewInvoker(registry).Invoke(ProcessContext(), req, bc)
	if err != nil {
		run.SetResult(api.ResultFailure)
	}
	printOutcome(run.Result(), run.ID)
	return err
}

func buildRemote(c *cli.Context, cl *client.Client, req *api.BuildRequest, env map[string]string) error {
	r, err := cl.Build(ProcessContext(), &api.BuildStepRequest{
		BuildRequest: *req,
		Workspace:    c.String("workspace"),
		Node:         c.String("node"),
		Env:          env,
	})
	if err != nil {
		return err
	}

	resp, err := client.ParseBuildResponse(r)
	if err != nil {
		printOutcome(api.ResultFailure, resp.RunID)
		return err
	}
	printOutcome(resp.Outcome, resp.RunID)
	return nil
}

func printOutcome(res api.Result, runID string) {
	banner := aurora.Bold(aurora.BrightGreen(res))
	if res != api.ResultSuccess {
		banner = aurora.Bold(aurora.BrightRed(res))
	}
	if runID == "" {
		fmt.Printf("\n%s\n", banner)
		return
	}
	fmt.Printf("\n%s (run %s)\n", banner, runID)
}
