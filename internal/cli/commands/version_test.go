package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/sqlite"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		want    []string
		notWant []string
	}{
		{
			name:    "release build",
			info:    BuildInfo{Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2026-01-02"},
			want:    []string{"leapxfer v1.2.3", "flat files", "commit:  abc1234", "built:   2026-01-02"},
			notWant: nil,
		},
		{
			name:    "local build hides unknown fields",
			info:    BuildInfo{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
			want:    []string{"leapxfer vdev"},
			notWant: []string{"commit:", "built:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(NewVersionCommand(tt.info))
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
			assert.Contains(t, out, "drivers: ")
			assert.Contains(t, out, "sqlite")
			assert.Contains(t, out, ".parquet")
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
