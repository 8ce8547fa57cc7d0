package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/logging"
)

func TestNew_FileOutputWithRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outpost.log")
	logger, err := logging.New(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		Service:  "outpost-test",
		Rotation: config.RotationConfig{Enabled: true, MaxSize: 1},
	})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("building started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"building started"`)
	assert.Contains(t, string(data), `"logger":"outpost-test"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := logging.New(config.LoggingConfig{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
