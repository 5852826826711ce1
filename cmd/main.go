package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"meetcal/internal/command"
	"meetcal/internal/config"
	"meetcal/internal/ics"
	"meetcal/internal/registry"
	"meetcal/internal/scheduler"
	"meetcal/internal/storage/sqlite"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "meetcal",
		Usage: "Schedule meetings and register people from natural-language commands.",
		Commands: []*cli.Command{
			replCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Read commands interactively until 'exit'.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			interp := command.New(
				logger,
				registry.New(logger, store),
				scheduler.New(logger, store),
				ics.New(logger, store),
				cfg.ExportFile,
				os.Stdout,
			)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("Input: ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if strings.HasPrefix(strings.ToLower(line), "exit") {
					break
				}
				interp.Process(c.Context, line)
			}
			return scanner.Err()
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all stored meetings to an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Usage: "Export file path. Defaults to MEETCAL_EXPORT_FILE."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			path := cfg.ExportFile
			if c.IsSet("output") {
				path = c.String("output")
			}
			count, err := ics.New(logger, store).ExportFile(c.Context, path)
			if err != nil {
				return fmt.Errorf("export meetings: %w", err)
			}
			fmt.Printf("Exported %d meetings to %s\n", count, path)
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import meetings from an iCalendar file.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("an input file is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			result, err := ics.New(logger, store).Import(c.Context, path)
			if err != nil {
				return fmt.Errorf("import meetings: %w", err)
			}
			fmt.Printf("Imported %d meetings from %s (%d already present)\n", result.Imported, path, result.Skipped)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
