// wishapp runs a single Tk host for the whole program.
//
// Most programs need exactly one connection, started at the top of main and
// served at the bottom:
//
//     root, err := wishapp.Start()
//     ...build the interface on root...
//     wishapp.Mainloop()
//
// The executable defaults to "wish"; TKBACKEND_WISH overrides it, and
// StartWith or StartConfig choose one explicitly.
package wishapp

import (
	"os"
	"sync"

	tkbackend "github.com/special/tkbackend/backend"
)

// EnvExecutable names the environment variable that overrides the default
// interpreter.
const EnvExecutable = "TKBACKEND_WISH"

var (
	mu         sync.Mutex
	started    bool
	connection *tkbackend.Connection
)

// Connection returns the program's connection, or nil before Start.
func Connection() *tkbackend.Connection {
	mu.Lock()
	defer mu.Unlock()
	return connection
}

// Start launches "wish" (or $TKBACKEND_WISH) and returns the root window.
func Start() (*tkbackend.Widget, error) {
	cfg := tkbackend.DefaultConfig()
	if exe := os.Getenv(EnvExecutable); exe != "" {
		cfg.Executable = exe
	}
	return StartConfig(cfg)
}

// StartWith launches the given interpreter, e.g. a tclkit.
func StartWith(executable string) (*tkbackend.Widget, error) {
	cfg := tkbackend.DefaultConfig()
	cfg.Executable = executable
	return StartConfig(cfg)
}

// StartConfig launches a host with cfg. Start may only be attempted once
// per program, even if the attempt failed; later calls return
// tkbackend.ErrDoubleStart.
func StartConfig(cfg tkbackend.Config) (*tkbackend.Widget, error) {
	mu.Lock()
	defer mu.Unlock()

	if started {
		return nil, tkbackend.ErrDoubleStart
	}
	started = true

	c := tkbackend.NewConnection(cfg)
	root, err := c.Start()
	if err != nil {
		return nil, err
	}
	connection = c
	return root, nil
}

// Mainloop dispatches callbacks until the user closes the main window.
func Mainloop() error {
	c := Connection()
	if c == nil {
		return tkbackend.ErrNotStarted
	}
	return c.Run()
}

// End kills the host and exits the program with status 0.
func End() {
	if c := Connection(); c != nil {
		c.End()
	}
	os.Exit(0)
}
