package tkbackend

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// process owns the host child process. The connection takes its pipe ends
// at start; the process keeps only the handle needed to kill and reap it.
type process struct {
	cmd *exec.Cmd

	once    sync.Once
	waitErr error
	exited  chan struct{}
}

// startProcess launches cfg.Executable with piped stdin and stdout. Stderr
// is inherited so Tcl errors reach the terminal.
func startProcess(cfg Config) (*process, io.WriteCloser, io.ReadCloser, error) {
	cmd := exec.Command(cfg.Executable, cfg.Args...)
	cmd.Stderr = os.Stderr
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}

	// Plain pipes rather than cmd.StdoutPipe: Wait must not close the read
	// end while the reader may still have buffered lines to consume.
	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w %q: %v", ErrSpawn, cfg.Executable, err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		inR.Close()
		inW.Close()
		return nil, nil, nil, fmt.Errorf("%w %q: %v", ErrSpawn, cfg.Executable, err)
	}
	cmd.Stdin, cmd.Stdout = inR, outW

	err = cmd.Start()
	// The child has its own copies now.
	inR.Close()
	outW.Close()
	if err != nil {
		inW.Close()
		outR.Close()
		return nil, nil, nil, fmt.Errorf("%w %q: %v", ErrSpawn, cfg.Executable, err)
	}

	p := &process{cmd: cmd, exited: make(chan struct{})}
	go p.wait()
	return p, inW, outR, nil
}

func (p *process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.exited)
}

// kill sends SIGKILL to the host, once, and waits for it to be reaped.
func (p *process) kill() error {
	var err error
	p.once.Do(func() {
		select {
		case <-p.exited:
			return
		default:
		}
		if kerr := p.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		<-p.exited
	})
	return err
}

func (p *process) running() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *process) pid() int {
	return p.cmd.Process.Pid
}
