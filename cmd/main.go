package main

import (
	"context"
	"fmt"
	"os"

	"greeterbot/internal/config"

	"github.com/urfave/cli/v3"
)

// newApp builds the command tree. Commands hold parsed flag state, so every
// Run needs a fresh tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "greeterbot",
		Version: Version,
		Usage:   "Greets chat sessions with restaurant details from the environment",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Dotenv files loaded before reading the environment",
				Value: []string{".env"},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := config.LoadDotEnv(cmd.StringSlice("env-file")...); err != nil {
				return ctx, cli.Exit(err, 1)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			newServeCmd(),
			newRenderCmd(),
			newVersionCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
