package tkbackend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tkbackend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
executable: /usr/bin/wish8.6
args: ["-name", "demo"]
env: ["LANG=C.UTF-8"]
queue_size: 16
reply_timeout: 2s
trace: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/wish8.6", cfg.Executable)
	assert.Equal(t, []string{"-name", "demo"}, cfg.Args)
	assert.Equal(t, []string{"LANG=C.UTF-8"}, cfg.Env)
	assert.Equal(t, 16, cfg.QueueSize)
	assert.Equal(t, 2*time.Second, cfg.ReplyTimeout)
	assert.True(t, cfg.Trace)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "trace: false\nqueue_size: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, "wish", cfg.Executable)
	assert.Equal(t, defaultQueueSize, cfg.QueueSize)
	assert.Zero(t, cfg.ReplyTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "queue_size: [not a number\n"))
	assert.Error(t, err)
}
