package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/crucible-build/shrinkwrap/cli/config"
	"github.com/crucible-build/shrinkwrap/cli/render"
	"github.com/crucible-build/shrinkwrap/snapshot"
)

// InspectCommand returns the inspect command: a read-only view of the
// last run's snapshot record.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the snapshot record of the last run",
		ArgsUsage: "[snapshot-path]",
		Flags: []cli.Flag{
			ConfigFlag,
			FormatFlag,
			NoColorFlag,
		},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	path, err := snapshotPathArg(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	record, err := snapshot.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("no snapshot at %s (run shrinkwrap first)", path), exitConfigError)
		}
		return cli.Exit(err.Error(), exitConfigError)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	return r.Render(record)
}

// snapshotPathArg resolves the snapshot path: an explicit argument
// wins, otherwise the config file decides (including its default).
// A missing config file is fine when the path was given explicitly.
func snapshotPathArg(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}

	configPath := c.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return "", err
	}
	return cfg.SnapshotPath(filepath.Dir(absPath)), nil
}
