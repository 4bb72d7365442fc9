package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/crucible-build/shrinkwrap/args"
	"github.com/crucible-build/shrinkwrap/cli/config"
	"github.com/crucible-build/shrinkwrap/cli/render"
)

// ArgsCommand returns the args command: a dry run that serializes the
// configured argument model without launching the shrinker. CI recipes
// use it to diff the effective tool invocation across config changes.
func ArgsCommand() *cli.Command {
	return &cli.Command{
		Name:  "args",
		Usage: "Print the serialized shrinker arguments without running",
		Flags: []cli.Flag{
			ConfigFlag,
			FormatFlag,
			NoColorFlag,
		},
		Action: argsAction,
	}
}

func argsAction(c *cli.Context) error {
	configPath := c.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), exitConfigError)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot resolve config path: %v", err), exitConfigError)
	}

	argv, err := cfg.BuildModel(filepath.Dir(absPath)).Serialize()
	if err != nil {
		if configErr, ok := args.IsConfigError(err); ok {
			return cli.Exit(fmt.Sprintf("invalid shrinker configuration: %v", configErr), exitConfigError)
		}
		return cli.Exit(err.Error(), exitConfigError)
	}

	// Structured formats render the vector; the default is one token
	// per line for shell consumption.
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	if format == render.FormatJSON || format == render.FormatYAML {
		r := render.NewRendererWithWriter(format, c.Bool("no-color"), c.App.Writer)
		return r.Render(argv)
	}

	for _, token := range argv {
		fmt.Fprintln(c.App.Writer, token)
	}
	return nil
}
