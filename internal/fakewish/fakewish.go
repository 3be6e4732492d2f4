// Package fakewish stands in for a wish interpreter on the far side of a
// pair of streams. It records every line it is sent, answers the few
// commands it understands, and lets tests push arbitrary lines back as if
// Tk had printed them.
package fakewish

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Handler answers one command with the lines the host should print.
type Handler func(command string) []string

type handler struct {
	prefix string
	fn     Handler
}

// Host is a scripted Tk host.
type Host struct {
	in io.Reader

	outMu sync.Mutex
	out   io.Writer

	mu       sync.Mutex
	received []string
	handlers []handler
	changed  chan struct{}
}

// New returns a host reading commands from in and printing to out.
func New(in io.Reader, out io.Writer) *Host {
	return &Host{
		in:      in,
		out:     out,
		changed: make(chan struct{}),
	}
}

// Pipe returns a host wired to in-memory pipes, together with the ends a
// client uses: hostOut carries what the host prints and hostIn what the
// client sends. Closing hostOut's writer (CloseOutput) looks to the client
// like the host going away.
func Pipe() (h *Host, hostOut io.ReadCloser, hostIn io.WriteCloser) {
	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	h = New(cmdR, outW)
	return h, outR, cmdW
}

// Handle answers commands starting with prefix. Later handlers take
// precedence over earlier ones and over the built-in behavior.
func (h *Host) Handle(prefix string, fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler{prefix: prefix, fn: fn})
}

// Emit prints lines as if the interpreter had written them.
func (h *Host) Emit(lines ...string) error {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	for _, line := range lines {
		if _, err := io.WriteString(h.out, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// CloseOutput closes the host's output stream, if it can be closed.
func (h *Host) CloseOutput() error {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	if c, ok := h.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Serve reads and answers commands until its input ends. Built in, it
// answers "puts <word> ; flush stdout" with the word and "destroy ." with
// "exit", the way the real close handler does. Scripts sent by Eval are
// unwrapped: handlers and Received see the script itself, and the answer is
// framed by the Eval's reply markers.
func (h *Host) Serve() error {
	sc := bufio.NewScanner(h.in)
	for sc.Scan() {
		line := sc.Text()

		if id, script, ok := parseEval(line); ok {
			h.record(script)
			out := []string{replyPrefix + id + "-begin"}
			out = append(out, h.answer(script)...)
			out = append(out, replyPrefix+id+"-end")
			if err := h.Emit(out...); err != nil {
				return err
			}
			continue
		}

		h.record(line)
		if err := h.Emit(h.answer(line)...); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (h *Host) answer(line string) []string {
	if fn := h.handlerFor(line); fn != nil {
		return fn(line)
	}
	switch {
	case strings.TrimSpace(line) == "destroy .":
		return []string{"exit"}
	case isPlainPuts(line):
		return []string{putsWord(line)}
	}
	return nil
}

func (h *Host) handlerFor(line string) Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.handlers) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, h.handlers[i].prefix) {
			return h.handlers[i].fn
		}
	}
	return nil
}

func (h *Host) record(line string) {
	h.mu.Lock()
	h.received = append(h.received, line)
	close(h.changed)
	h.changed = make(chan struct{})
	h.mu.Unlock()
}

// Received returns a copy of every line read so far.
func (h *Host) Received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.received...)
}

// WaitFor blocks until a received line satisfies match and returns it.
func (h *Host) WaitFor(ctx context.Context, match func(string) bool) (string, error) {
	seen := 0
	for {
		h.mu.Lock()
		for ; seen < len(h.received); seen++ {
			if match(h.received[seen]) {
				line := h.received[seen]
				h.mu.Unlock()
				return line, nil
			}
		}
		changed := h.changed
		h.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// WaitForLine waits for a line equal to want.
func (h *Host) WaitForLine(ctx context.Context, want string) error {
	_, err := h.WaitFor(ctx, func(line string) bool { return line == want })
	return err
}

const putsSuffix = " ; flush stdout"

func isPlainPuts(line string) bool {
	if !strings.HasPrefix(line, "puts ") || !strings.HasSuffix(line, putsSuffix) {
		return false
	}
	return !strings.ContainsAny(putsWord(line), "[]$")
}

func putsWord(line string) string {
	word := strings.TrimSuffix(strings.TrimPrefix(line, "puts "), putsSuffix)
	word = strings.TrimSpace(word)
	if strings.HasPrefix(word, "{") && strings.HasSuffix(word, "}") {
		word = word[1 : len(word)-1]
	}
	return word
}

const (
	replyPrefix = "cb1r-"
	catchSep    = " ; catch "
	evalSuffix  = "-end ; flush stdout"
)

// parseEval recognizes
// "puts cb1r-<id>-begin ; catch <script> ; puts cb1r-<id>-end ; flush stdout".
func parseEval(line string) (id, script string, ok bool) {
	if !strings.HasPrefix(line, "puts "+replyPrefix) || !strings.HasSuffix(line, evalSuffix) {
		return "", "", false
	}
	sep := strings.Index(line, catchSep)
	if sep < 0 {
		return "", "", false
	}
	id, found := strings.CutSuffix(line[len("puts "+replyPrefix):sep], "-begin")
	if !found || id == "" {
		return "", "", false
	}
	tail := " ; puts " + replyPrefix + id + evalSuffix
	if !strings.HasSuffix(line, tail) || len(line)-len(tail) < sep+len(catchSep) {
		return "", "", false
	}
	return id, unquote(line[sep+len(catchSep) : len(line)-len(tail)]), true
}

// unquote reverses the quoting Eval applies to a script: a braced word or
// a backslash escaped one.
func unquote(word string) string {
	if strings.HasPrefix(word, "{") && strings.HasSuffix(word, "}") {
		return word[1 : len(word)-1]
	}

	var b strings.Builder
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c != '\\' || i+1 == len(word) {
			b.WriteByte(c)
			continue
		}
		i++
		switch word[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(word[i])
		}
	}
	return b.String()
}
