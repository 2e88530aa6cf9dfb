package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rmartinelli/plume/internal/config"
	"github.com/rmartinelli/plume/internal/docs"
	"github.com/rmartinelli/plume/internal/doctor"
	"github.com/rmartinelli/plume/internal/pipeline"
	"github.com/rmartinelli/plume/internal/scaffold"
	"github.com/rmartinelli/plume/internal/state"
	"github.com/rmartinelli/plume/internal/tool"
	"github.com/rmartinelli/plume/internal/ux"
	cli "github.com/urfave/cli/v3"

	// Side-effect imports register the built-in tools.
	_ "github.com/rmartinelli/plume/internal/compose"
	_ "github.com/rmartinelli/plume/internal/modality"
	_ "github.com/rmartinelli/plume/internal/story"
)

func main() {
	// Backend credentials may live in a local .env file.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "plume",
		Usage: "Multi-modal story pipeline",
		Description: "Turns source material into an illustrated, narrated story: " +
			"text pages first, then images and speech in parallel, then an optional video.",
		Commands: []*cli.Command{
			initCmd(),
			runCmd(),
			statusCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run the story pipeline on a source file",
		ArgsUsage: "<source-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "plume.yaml", Usage: "Config file path"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print stage plan without executing"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sourcePath := cmd.Args().First()
			if sourcePath == "" {
				return fmt.Errorf("source file argument is required")
			}

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			source, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("reading source file: %w", err)
			}

			run, err := state.Load(cfg.StoryDir)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			run.Status = state.StatusRunning

			r := &pipeline.Runner{
				Config:   cfg,
				Registry: tool.Default,
				Source:   string(source),
				State:    run,
			}

			if cmd.Bool("dry-run") {
				r.DryRunPrint()
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			return r.Run(ctx)
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show pipeline status for the configured story",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "plume.yaml", Usage: "Config file path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			run, err := state.Load(cfg.StoryDir)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}

			ux.RenderStatus(cfg.Name, run, cfg.StoryDir)
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Diagnose a failed run using the configured LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "plume.yaml", Usage: "Config file path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			run, err := state.Load(cfg.StoryDir)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}

			return doctor.Run(ctx, cfg, run)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'plume docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a plume.yaml config and sample source file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}
