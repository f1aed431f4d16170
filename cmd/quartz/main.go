package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "quartz",
		Version: Version,
		Usage:   "Watch-face engine runtime",
		Commands: []*cli.Command{
			versionCmd,
			describeCmd,
			runCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
