package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/openwearables/quartz/internal/facecfg"
)

var describeCmd = &cli.Command{
	Name:      "describe",
	Usage:     "Validate a face definition and print its structure",
	ArgsUsage: "[face.toml]",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadFaceConfig(cmd)
		if err != nil {
			return err
		}

		if cmd.Args().Len() > 0 {
			fmt.Printf("Face definition %s is valid\n\n", cmd.Args().Get(0))
		}
		fmt.Println(cfg)
		return nil
	},
}

// loadFaceConfig loads the face definition from the first positional argument,
// falling back to the built-in default face.
func loadFaceConfig(cmd *cli.Command) (*facecfg.Config, error) {
	if cmd.Args().Len() == 0 {
		return facecfg.Default(), nil
	}
	path := cmd.Args().Get(0)
	cfg, err := facecfg.NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load face definition: %w", err)
	}
	return cfg, nil
}
