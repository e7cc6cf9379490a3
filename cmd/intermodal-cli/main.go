// Command intermodal-cli is the operator-facing entry point that
// replaces the teacher's ad hoc root-level smoke-test files
// (test_walking.go, test_walking_points.go, test_car_walking_combo.go)
// with proper urfave/cli/v3 subcommands, grounded on
// Starford96-kenaz's cmd/app/main.go.
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "intermodal-cli",
		Usage: "door-to-door intermodal routing core: search and dataset seeding",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("INTERMODAL_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			seedCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("intermodal-cli error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
