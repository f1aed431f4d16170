package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestSetupLogging(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		t.Run(format, func(t *testing.T) {
			var handler slog.Handler
			cmd := &cli.Command{
				Name:  "test",
				Flags: logFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					handler = setupLogging(cmd)
					return nil
				},
			}

			err := cmd.Run(t.Context(), []string{"test", "--log-format", format, "--log-level", "debug"})
			require.NoError(t, err)
			assert.NotNil(t, handler)
			assert.True(t, handler.Enabled(t.Context(), slog.LevelDebug))
		})
	}
}
