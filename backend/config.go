package tkbackend

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultExecutable = "wish"
	defaultQueueSize  = 128
)

// Config controls how a Connection launches and talks to its host.
type Config struct {
	// Executable is the Tcl/Tk interpreter to run, e.g. "wish" or a tclkit.
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args,omitempty"`
	// Env is appended to the current environment of the host process.
	Env []string `yaml:"env,omitempty"`
	// QueueSize is the number of commands buffered for the writer before
	// Send blocks.
	QueueSize int `yaml:"queue_size"`
	// ReplyTimeout bounds how long Eval waits for its reply. Zero waits
	// until the context is done or the host exits.
	ReplyTimeout time.Duration `yaml:"reply_timeout"`
	// Trace logs every command and inbound line at debug level.
	Trace bool `yaml:"trace"`

	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used by wishapp.Start.
func DefaultConfig() Config {
	return Config{
		Executable: defaultExecutable,
		QueueSize:  defaultQueueSize,
	}
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (cfg Config) withDefaults() Config {
	if cfg.Executable == "" {
		cfg.Executable = defaultExecutable
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
