package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/logrusorgru/aurora"
	"github.com/mitchellh/go-wordwrap"
	"github.com/urfave/cli/v2"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/client"
	"github.com/gnatci/gprstep/pkg/config"
	"github.com/gnatci/gprstep/pkg/conv"
	"github.com/gnatci/gprstep/pkg/tools"
)

// NewToolsCommand returns the specification of the `tools` command.
func NewToolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "manage the configured GNAT installations",
		Subcommands: cli.Commands{
			&cli.Command{
				Name:   "list",
				Usage:  "list the configured installations",
				Action: toolsListCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "selected",
						Usage: "installation to mark as selected",
					},
				},
			},
			&cli.Command{
				Name:      "add",
				Usage:     "add an installation",
				ArgsUsage: "NAME HOME",
				Action:    toolsAddCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "property",
						Usage: "`KEY=VALUE` property of the installation",
					},
				},
			},
			&cli.Command{
				Name:      "remove",
				Usage:     "remove an installation",
				ArgsUsage: "NAME",
				Action:    toolsRemoveCommand,
			},
			&cli.Command{
				Name:      "set",
				Usage:     "replace all installations with those in a TOML file of [[installation]] tables",
				ArgsUsage: "FILE",
				Action:    toolsSetCommand,
			},
			&cli.Command{
				Name:      "validate",
				Usage:     "check that a directory is a GNAT installation",
				ArgsUsage: "HOME",
				Action:    toolsValidateCommand,
			},
			&cli.Command{
				Name:   "check",
				Usage:  "validate the home of every configured installation",
				Action: toolsCheckCommand,
			},
			&cli.Command{
				Name:      "install",
				Usage:     "unpack a toolchain archive and add it as an installation",
				ArgsUsage: "NAME ARCHIVE",
				Action:    toolsInstallCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dest",
						Usage: "directory to unpack into (default: the tools directory under the gprstep home)",
					},
				},
			},
		},
	}
}

// withRegistry runs fn against the local installation registry.
func withRegistry(cfg *config.EnvConfig, fn func(*tools.Registry) error) error {
	registry, closeStore, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint
	return fn(registry)
}

func toolsListCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	selected := c.String("selected")

	var opts []tools.Option
	if cl := setupClient(c, cfg); cl != nil {
		defer cl.Close()
		r, err := cl.Installations(ProcessContext(), selected)
		if err != nil {
			return err
		}
		if opts, err = client.ParseOptionsResponse(r); err != nil {
			return err
		}
	} else {
		err := withRegistry(cfg, func(r *tools.Registry) error {
			opts = r.Options(selected)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(opts) == 0 {
		fmt.Println("no installations configured")
		return nil
	}
	for _, o := range opts {
		if o.Selected {
			fmt.Println(aurora.Bold(aurora.Green("* " + o.Name)))
			continue
		}
		fmt.Println("  " + o.Name)
	}
	return nil
}

func toolsAddCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected NAME and HOME")
	}
	props, err := conv.ParseKeyValues(c.StringSlice("property"))
	if err != nil {
		return fmt.Errorf("failed while parsing properties: %w", err)
	}
	if len(props) == 0 {
		props = nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inst := api.NewInstallation(c.Args().Get(0), c.Args().Get(1), props)
	return withRegistry(cfg, func(r *tools.Registry) error {
		return addInstallation(r, inst)
	})
}

// addInstallation appends inst to the registry. The home is validated, but a
// home that doesn't validate only produces a warning: it may exist on the
// nodes builds run on.
func addInstallation(r *tools.Registry, inst api.Installation) error {
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("invalid installation: %w", err)
	}
	if _, ok := r.Lookup(inst.Name); ok {
		return fmt.Errorf("installation %s already exists; remove it first", inst.Name)
	}
	if err := tools.ValidateHome(inst.Home); err != nil {
		printWarning(err)
	}

	if err := r.SetAll(append(r.All(), inst)); err != nil {
		return err
	}
	fmt.Printf("added installation %s at %s\n", inst.Name, inst.Home)
	return nil
}

func toolsRemoveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected NAME")
	}
	name := c.Args().First()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withRegistry(cfg, func(r *tools.Registry) error {
		all := r.All()
		kept := all[:0]
		for _, inst := range all {
			if inst.Name != name {
				kept = append(kept, inst)
			}
		}
		if len(kept) == len(all) {
			return fmt.Errorf("%w: %q", tools.ErrNotFound, name)
		}
		if err := r.SetAll(kept); err != nil {
			return err
		}
		fmt.Printf("removed installation %s\n", name)
		return nil
	})
}

func toolsSetCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected FILE")
	}
	insts, err := tools.NewFileStore(c.Args().First()).Load()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cl := setupClient(c, cfg); cl != nil {
		defer cl.Close()
		r, err := cl.SetInstallations(ProcessContext(), insts)
		if err != nil {
			return err
		}
		stored, err := client.ParseInstallationsResponse(r)
		if err != nil {
			return err
		}
		fmt.Printf("%d installations configured\n", len(stored))
		return nil
	}

	return withRegistry(cfg, func(r *tools.Registry) error {
		if err := r.SetAll(insts); err != nil {
			return err
		}
		fmt.Printf("%d installations configured\n", len(r.All()))
		return nil
	})
}

func toolsValidateCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected HOME")
	}
	home := c.Args().First()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cl := setupClient(c, cfg); cl != nil {
		defer cl.Close()
		r, rerr := cl.ValidateHome(ProcessContext(), home)
		if rerr != nil {
			return rerr
		}
		err = client.ParseValidateResponse(r)
	} else {
		err = tools.ValidateHome(home)
	}

	if err != nil {
		printWarning(err)
		return errors.New("validation failed")
	}
	fmt.Printf("%s is a GNAT installation directory\n", home)
	return nil
}

func toolsCheckCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withRegistry(cfg, func(r *tools.Registry) error {
		err := r.Check()
		if err == nil {
			fmt.Printf("all %d installations are valid\n", len(r.All()))
			return nil
		}

		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				printWarning(e)
			}
			return fmt.Errorf("%d installations failed validation", len(merr.Errors))
		}
		return err
	})
}

func toolsInstallCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected NAME and ARCHIVE")
	}
	name, archive := c.Args().Get(0), c.Args().Get(1)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dest := c.String("dest")
	if dest == "" {
		dest = filepath.Join(cfg.Dirs().Tools(), name)
	}

	home, err := tools.InstallArchive(archive, dest)
	if err != nil {
		return err
	}

	return withRegistry(cfg, func(r *tools.Registry) error {
		return addInstallation(r, api.NewInstallation(name, home, nil))
	})
}

func printWarning(err error) {
	fmt.Println(aurora.Yellow(wordwrap.WrapString("warning: "+err.Error(), 100)))
}
