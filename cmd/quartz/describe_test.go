package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const validFaceContent = `
version = "v1"
name = "test face"
interactive_interval = "250ms"

[[style]]
key = "colorScheme"
display_name = "Color Scheme"
values = ["light", "dark"]
default = "light"

[[slot]]
id = 1
bounds = [10.0, 10.0, 50.0, 50.0]
types = ["short_text"]

[[slot]]
id = 2
bounds = [40.0, 40.0, 80.0, 80.0]
types = ["ranged_value"]
`

const invalidFaceContent = `
version = "v1"
name = "broken face"

[[slot]]
id = 1
bounds = [10.0, 10.0, 50.0, 50.0]
types = ["short_text"]

[[slot]]
id = 1
bounds = [40.0, 40.0, 80.0, 80.0]
types = ["ranged_value"]
`

// createTempFaceFile writes a face definition into a temp dir.
func createTempFaceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "face.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDescribeAction(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError bool
		errorMsg  string
	}{
		{
			name:      "no_argument_uses_default_face",
			args:      []string{"test"},
			wantError: false,
		},
		{
			name:      "valid_face",
			args:      []string{"test", createTempFaceFile(t, validFaceContent)},
			wantError: false,
		},
		{
			name:      "invalid_face",
			args:      []string{"test", createTempFaceFile(t, invalidFaceContent)},
			wantError: true,
			errorMsg:  "duplicate",
		},
		{
			name:      "nonexistent_file",
			args:      []string{"test", "/path/that/does/not/exist.toml"},
			wantError: true,
			errorMsg:  "failed to load face definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Name:   "test",
				Action: describeCmd.Action,
				Flags:  describeCmd.Flags,
			}

			err := cmd.Run(t.Context(), tt.args)

			if tt.wantError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
