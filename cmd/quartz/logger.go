package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/openwearables/quartz/internal/logging"
)

var logFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
		Value: "info",
	},
	&cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format (text, json)",
		Value: "text",
	},
}

// setupLogging builds the handler from CLI flags and installs it as default.
func setupLogging(cmd *cli.Command) slog.Handler {
	handler := logging.SetupHandler(cmd.String("log-format"), cmd.String("log-level"), os.Stderr)
	slog.SetDefault(slog.New(handler))
	return handler
}
