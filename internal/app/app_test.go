package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/standout/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ApifyToken:      "token",
		Concurrency:     2,
		ExportTarget:    config.TargetSheets,
		GoogleTokenFile: "token.json",
		CSVDir:          "exports",
	}
}

func TestBuild_ExportTargets(t *testing.T) {
	tests := []struct {
		override string
		want     string
	}{
		{"", "sheets"},
		{config.TargetCSV, "csv"},
		{config.TargetNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.override, func(t *testing.T) {
			c, err := Build(context.Background(), testConfig(), tt.override, zerolog.Nop())
			require.NoError(t, err)
			defer c.Close()

			assert.Nil(t, c.Pool)
			assert.False(t, c.Cache.Enabled())
			assert.Equal(t, tt.want, c.Standout.ExportTarget())
		})
	}
}

func TestBuild_PostgresNeedsDatabase(t *testing.T) {
	_, err := Build(context.Background(), testConfig(), config.TargetPostgres, zerolog.Nop())
	assert.Error(t, err)
}

func TestBuild_UnknownTarget(t *testing.T) {
	_, err := Build(context.Background(), testConfig(), "excel", zerolog.Nop())
	assert.Error(t, err)
}
