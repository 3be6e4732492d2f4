package tkbackend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/special/tkbackend/internal/fakewish"
)

// fakeHostEnv makes the test binary act as the host when it is launched by
// a Connection, so process supervision can be tested without Tk.
const fakeHostEnv = "TKBACKEND_FAKE_HOST"

func TestMain(m *testing.M) {
	if os.Getenv(fakeHostEnv) == "1" {
		if err := fakewish.New(os.Stdin, os.Stdout).Serve(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

const testTimeout = 5 * time.Second

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// newTestConnection returns an unstarted connection wired to a fake host.
func newTestConnection(t *testing.T, cfg Config) (*Connection, *fakewish.Host) {
	h, out, in := fakewish.Pipe()
	go h.Serve()
	c := NewConnectionSplit(out, in, cfg)
	t.Cleanup(func() { c.Terminate() })
	return c, h
}

func startTestConnection(t *testing.T) (*Connection, *Widget, *fakewish.Host) {
	c, h := newTestConnection(t, testConfig())
	root, err := c.Start()
	require.NoError(t, err)
	return c, root, h
}

// runLoop runs c.Run in the background.
func runLoop(c *Connection) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	return done
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for the event loop")
		return nil
	}
}

func waitValue[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a callback")
		var zero T
		return zero
	}
}

// holdUntil returns a handler that answers nothing until release is closed
// or the test ends, like a script that never returns.
func holdUntil(t *testing.T, release chan struct{}) fakewish.Handler {
	ended := make(chan struct{})
	t.Cleanup(func() { close(ended) })
	return func(string) []string {
		select {
		case <-release:
		case <-ended:
		}
		return nil
	}
}
