package main

import (
	"log/slog"
	"os"

	"github.com/wayfare/atlas/internal/adapter"
	"github.com/wayfare/atlas/internal/cli"
)

func main() {
	cfg, err := adapter.LoadConfig()
	if err == nil {
		if logger, lerr := adapter.SetupLogger(&cfg.Logging); lerr == nil {
			slog.SetDefault(logger)
		} else {
			slog.SetDefault(adapter.NullLogger())
		}
	} else {
		slog.SetDefault(adapter.NullLogger())
	}

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
