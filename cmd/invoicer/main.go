package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "invoicer",
		Usage: "manage invoices from the command line",
		Before: func(c *cli.Context) error {
			module, err := invoicing.New(c.Context, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			c.App.Metadata["module"] = module
			return nil
		},
		After: func(c *cli.Context) error {
			if module, ok := c.App.Metadata["module"].(*invoicing.Module); ok {
				return module.Close()
			}
			return nil
		},
		Metadata: map[string]interface{}{},
		Commands: commands(cfg),
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		utils.LogError("command failed", err, nil)
		os.Exit(1)
	}
}

func moduleFrom(c *cli.Context) *invoicing.Module {
	return c.App.Metadata["module"].(*invoicing.Module)
}
