package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"moneyz/internal/cli"
	"moneyz/internal/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	dataDir := flag.String("data-dir", "", "directory of the budget files (overrides MONEYZ_DATA_DIR)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), cli.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := cli.LoadAndValidateConfig(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return 1
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}()

	app := &cli.App{
		Out:     os.Stdout,
		Logger:  logger,
		Store:   res.Backend,
		Locale:  cli.LoadLocale(logger, cfg),
		DataDir: cfg.DataDir,
	}
	logger.Debug("Running command",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.Backend,
		log.FieldLanguage, app.Locale.ID())

	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "moneyz:", err)
		if errors.Is(err, cli.ErrUsage) {
			flag.Usage()
			return 2
		}
		return 1
	}
	return 0
}
