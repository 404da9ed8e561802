package main

import (
	"context"
	"fmt"

	"greeterbot/internal/config"
	"greeterbot/internal/usecases"

	"github.com/urfave/cli/v3"
)

func newRenderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print the session greeting for the current environment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "variant",
				Usage:   "Greeting variant (status or logo)",
				Value:   config.VariantStatus,
				Sources: cli.EnvVars("GREETER_VARIANT"),
			},
		},
		Action: runRender,
	}
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	g, err := usecases.NewGreeter(cmd.String("variant"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := cmd.Root().Writer
	out := g.Greeting()
	fmt.Fprint(w, out.Content)
	if len(out.Elements) > 0 {
		fmt.Fprintln(w)
	}
	for _, e := range out.Elements {
		fmt.Fprintf(w, "[%s %s] %s\n", e.Type, e.Name, e.URL)
	}
	return nil
}
