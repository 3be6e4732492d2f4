package tkbackend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	uuid "github.com/satori/go.uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	stateNew int32 = iota
	stateRunning
	stateClosed
)

// preamble is written before any other command. It loads Tcl, makes the
// window's close button report "exit", turns off tear-off menus, and
// defines the procs the font chooser and scale callbacks report through.
var preamble = []string{
	"package require Tcl",
	"wm protocol . WM_DELETE_WINDOW { puts stdout {exit} ; flush stdout }",
	"option add *tearOff 0",
	`proc font_choice {w font args} {
    set res {font }
    append res [font actual $font]
    puts $res
    flush stdout
}`,
	`proc scale_value {w value args} {
    puts cb1f-$w-$value
    flush stdout
}`,
}

// Connection is one session with a Tk host. It owns the host's streams
// (and the host process itself when it spawned it), the identifier
// allocator and the callback registries.
//
// Commands are written by a single writer goroutine in the order they were
// sent. A single reader goroutine reads everything the host prints: replies
// are handed to the waiting Eval directly, and callback notices are queued
// until Process (or Run) dispatches them on the caller's goroutine.
type Connection struct {
	// Unrecognized, if set, is called from Process with lines that carried
	// no known tag and arrived when no Eval was waiting. Otherwise such
	// lines are logged as warnings.
	Unrecognized func(Message)

	config  Config
	logger  *slog.Logger
	session uuid.UUID
	metrics *instruments

	in   io.ReadCloser
	out  io.WriteCloser
	proc *process

	ids       idAllocator
	callbacks callbacks

	startMu sync.Mutex
	state   atomic.Int32
	exited  atomic.Bool
	root    *Widget

	errMu sync.Mutex
	err   error

	queue     chan string
	done      chan struct{}
	closeOnce sync.Once
	group     errgroup.Group

	replyMu sync.Mutex
	replies map[string]*replySlot
	// capture is the reply being read; only the reader touches it.
	capture *replyCapture

	eventMu       sync.Mutex
	events        []Message
	processSignal chan struct{}
	readerDone    chan struct{}
}

// NewConnection creates a connection that will launch cfg.Executable when
// started.
func NewConnection(cfg Config) *Connection {
	return newConnection(nil, nil, cfg)
}

// NewConnectionSplit creates a connection over streams that are already
// attached to a host: in carries the host's output and out its input.
// Starting it does not spawn anything, and Terminate closes both streams.
func NewConnectionSplit(in io.ReadCloser, out io.WriteCloser, cfg Config) *Connection {
	return newConnection(in, out, cfg)
}

func newConnection(in io.ReadCloser, out io.WriteCloser, cfg Config) *Connection {
	cfg = cfg.withDefaults()
	session, _ := uuid.NewV4()

	return &Connection{
		config:        cfg,
		logger:        cfg.Logger.With("component", "tkbackend", "session", session.String()),
		session:       session,
		metrics:       newInstruments(),
		in:            in,
		out:           out,
		replies:       make(map[string]*replySlot),
		queue:         make(chan string, cfg.QueueSize),
		done:          make(chan struct{}),
		processSignal: make(chan struct{}, 1),
		readerDone:    make(chan struct{}),
	}
}

// SessionID identifies this connection in logs and traces.
func (c *Connection) SessionID() string {
	return c.session.String()
}

// Start launches the host if needed, writes the preamble, and starts the
// writer and reader. It returns the root window. A connection can only be
// started once; later calls return ErrDoubleStart.
func (c *Connection) Start() (*Widget, error) {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	if c.state.Load() != stateNew || c.root != nil {
		return nil, ErrDoubleStart
	}

	if c.in == nil {
		proc, stdin, stdout, err := startProcess(c.config)
		if err != nil {
			c.state.Store(stateClosed)
			return nil, err
		}
		c.proc, c.out, c.in = proc, stdin, stdout
		c.logger.Info("host started", "executable", c.config.Executable, "pid", proc.pid())
	}

	c.root = &Widget{c: c, id: RootID}

	c.group.Go(c.writeLoop)
	for _, cmd := range preamble {
		if err := c.enqueue(cmd); err != nil {
			return nil, err
		}
	}
	c.group.Go(c.readLoop)

	// The reader may already have failed and closed the connection.
	if !c.state.CompareAndSwap(stateNew, stateRunning) {
		if err := c.Err(); err != nil {
			return nil, err
		}
	}
	return c.root, nil
}

// Root returns the root window, or nil before Start.
func (c *Connection) Root() *Widget {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	return c.root
}

// Running reports whether the connection has been started and has not yet
// been terminated or seen the host exit.
func (c *Connection) Running() bool {
	return c.state.Load() == stateRunning
}

// Err returns the first fatal error on the connection, if any.
func (c *Connection) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// NextID returns a new widget identifier under parent.
func (c *Connection) NextID(parent string) string {
	return c.ids.allocate(parent)
}

func (c *Connection) fatal(err error) {
	c.logger.Error("fatal", "err", err)
	c.errMu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.errMu.Unlock()
	if terr := c.Terminate(); terr != nil {
		c.warn("terminate failed", "err", terr)
	}
}

func (c *Connection) warn(msg string, args ...any) {
	c.logger.Warn(msg, args...)
}

// Send queues one command for the host. Commands are written in the order
// they are sent, each followed by a newline.
func (c *Connection) Send(command string) error {
	if c.state.Load() == stateNew {
		return ErrNotStarted
	}
	return c.enqueue(command)
}

func (c *Connection) enqueue(command string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.queue <- command:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Eval runs script on the host and returns the first line it prints, with
// surrounding whitespace removed, or "" if it prints nothing. For example
// "puts [winfo width .] ; flush stdout".
//
// The script runs under catch and its output is framed by reply markers
// carrying a per-call id, so the reply is never mistaken for a callback
// notice and a reply that arrives after its caller gave up is discarded.
//
// Eval is safe to call from callbacks and from any goroutine: only the
// connection's reader reads the host's output. Eval gives up when ctx is
// done, after Config.ReplyTimeout if one is set, or when the host exits.
func (c *Connection) Eval(ctx context.Context, script string) (string, error) {
	if c.state.Load() == stateNew {
		return "", ErrNotStarted
	}

	slot := newReplySlot()
	ctx, span := c.metrics.tracer.Start(ctx, "tkbackend.Eval")
	span.SetAttributes(attribute.String("tkbackend.reply_id", slot.id))
	defer span.End()
	start := time.Now()

	begin, end := replyMarkers(slot.id)
	c.pushReply(slot)
	err := c.enqueue(fmt.Sprintf("puts %s ; catch %s ; puts %s ; flush stdout", begin, Quote(script), end))
	if err != nil {
		c.removeReply(slot.id)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var timeout <-chan time.Time
	if c.config.ReplyTimeout > 0 {
		t := time.NewTimer(c.config.ReplyTimeout)
		defer t.Stop()
		timeout = t.C
	}

	var r reply
	select {
	case r = <-slot.ch:
	case <-c.readerDone:
		select {
		case r = <-slot.ch:
		default:
			r.err = c.readerErr()
		}
	case <-ctx.Done():
		r.err = ctx.Err()
	case <-timeout:
		r.err = ErrReplyTimeout
	}
	if r.err != nil {
		c.removeReply(slot.id)
	}

	c.metrics.evalDuration.Record(ctx, time.Since(start).Seconds())
	if r.err != nil {
		span.SetStatus(codes.Error, r.err.Error())
		return "", r.err
	}
	return r.text, nil
}

func (c *Connection) readerErr() error {
	if err := c.Err(); err != nil {
		return err
	}
	return ErrExited
}

// Process dispatches any queued callback notices on the calling goroutine
// and returns once the queue is empty. It does not block waiting for input;
// ProcessSignal tells when there is something to process.
//
// When the host reports exit, Process terminates the connection and drops
// anything queued behind the exit notice.
func (c *Connection) Process() error {
	if c.state.Load() == stateNew {
		return ErrNotStarted
	}

	for {
		msg, ok := c.nextEvent()
		if !ok {
			return nil
		}

		switch msg.Kind {
		case MessageExit:
			c.logger.Info("host exited")
			c.exited.Store(true)
			c.dropEvents()
			if err := c.Terminate(); err != nil {
				c.warn("terminate after exit failed", "err", err)
			}
			return nil

		case MessageUnrecognized:
			if c.Unrecognized != nil {
				c.Unrecognized(msg)
			} else {
				c.warn("unrecognized line from host", "line", msg.Text)
			}

		default:
			if !c.callbacks.dispatch(msg) && c.config.Trace {
				c.logger.Debug("no callback", "kind", msg.Kind.String(), "key", msg.Key)
			}
		}
	}
}

// ProcessSignal returns a channel that receives a value whenever there may
// be callback notices to Process. It is closed when the reader stops.
func (c *Connection) ProcessSignal() <-chan struct{} {
	return c.processSignal
}

// Run processes callbacks on the calling goroutine until the host exits,
// the host closes its output, or the connection is terminated. It returns
// nil after a normal exit and ErrHostClosed if the host went away without
// saying so.
func (c *Connection) Run() error {
	if c.state.Load() == stateNew {
		return ErrNotStarted
	}

	for {
		_, open := <-c.processSignal
		if err := c.Process(); err != nil {
			return err
		}
		if c.exited.Load() {
			return nil
		}
		if !open {
			return c.Err()
		}
	}
}

// Wait blocks until the writer and reader have both stopped, returning the
// first I/O error either of them hit.
func (c *Connection) Wait() error {
	return c.group.Wait()
}

// Terminate kills the host if this connection launched it and closes both
// streams. It is safe to call more than once.
func (c *Connection) Terminate() error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(stateClosed)
		close(c.done)

		if c.proc != nil {
			err = c.proc.kill()
		}
		if c.out != nil {
			c.out.Close()
		}
		if c.in != nil {
			c.in.Close()
		}
	})
	return err
}

var osExit = os.Exit

// End terminates the host and exits the program with status 0.
func (c *Connection) End() {
	if err := c.Terminate(); err != nil {
		c.warn("terminate failed", "err", err)
	}
	osExit(0)
}

func (c *Connection) closing() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Connection) writeLoop() error {
	for {
		select {
		case <-c.done:
			return nil
		case cmd := <-c.queue:
			if c.config.Trace {
				c.logger.Debug("send", "command", cmd)
			}
			if _, err := io.WriteString(c.out, cmd+"\n"); err != nil {
				if c.closing() {
					return nil
				}
				err = fmt.Errorf("write to host: %w", err)
				c.fatal(err)
				return err
			}
			c.metrics.commands.Add(context.Background(), 1)
		}
	}
}

// readLoop is the only reader of the host's output.
func (c *Connection) readLoop() error {
	defer close(c.processSignal)
	defer close(c.readerDone)

	rd := bufio.NewReader(c.in)
	for {
		line, err := rd.ReadString('\n')
		if len(line) > 0 && c.handleLine(line) == MessageExit {
			return nil
		}
		if err != nil {
			if c.closing() {
				return nil
			}
			if errors.Is(err, io.EOF) {
				err = ErrHostClosed
			} else {
				err = fmt.Errorf("%w: %v", ErrHostClosed, err)
			}
			c.fatal(err)
			return err
		}
	}
}

func (c *Connection) handleLine(line string) MessageKind {
	if c.config.Trace {
		c.logger.Debug("read", "line", line)
	}

	if c.capture != nil {
		return c.captureLine(line)
	}

	msg := ParseMessage(line)
	switch msg.Kind {
	case MessageReplyBegin:
		c.capture = &replyCapture{id: msg.Key}
		return msg.Kind
	case MessageReplyEnd:
		// An end with no begin; the begin line was lost or forged.
		msg.Kind = MessageUnrecognized
	case MessagePlain:
		msg.Kind = MessageUnrecognized
	}

	c.metrics.countMessage(context.Background(), msg.Kind)
	c.post(msg)
	return msg.Kind
}

// captureLine collects the output of the Eval being read. Lines are not
// parsed as tags until the matching end marker.
func (c *Connection) captureLine(line string) MessageKind {
	text := strings.TrimRight(line, "\r\n")
	_, end := replyMarkers(c.capture.id)
	if strings.TrimSpace(text) != end {
		if c.capture.lines == 0 {
			c.capture.first = text
		} else if c.config.Trace {
			c.logger.Debug("extra reply line dropped", "id", c.capture.id, "line", text)
		}
		c.capture.lines++
		return MessagePlain
	}

	capture := c.capture
	c.capture = nil
	c.metrics.countMessage(context.Background(), MessagePlain)
	if slot := c.takeReply(capture.id); slot != nil {
		slot.fulfil(capture.first)
	} else {
		c.logger.Debug("late reply dropped", "id", capture.id)
	}
	return MessageReplyEnd
}

func (c *Connection) post(msg Message) {
	c.eventMu.Lock()
	c.events = append(c.events, msg)
	c.eventMu.Unlock()

	select {
	case c.processSignal <- struct{}{}:
	default:
	}
}

func (c *Connection) nextEvent() (Message, bool) {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()
	if len(c.events) == 0 {
		return Message{}, false
	}
	msg := c.events[0]
	c.events[0] = Message{}
	c.events = c.events[1:]
	return msg, true
}

func (c *Connection) dropEvents() {
	c.eventMu.Lock()
	c.events = nil
	c.eventMu.Unlock()
}

type reply struct {
	text string
	err  error
}

// replySlot is the one-shot destination of an Eval, keyed by the id its
// reply markers carry.
type replySlot struct {
	id string
	ch chan reply
}

func newReplySlot() *replySlot {
	id, _ := uuid.NewV4()
	return &replySlot{id: id.String(), ch: make(chan reply, 1)}
}

func (s *replySlot) fulfil(text string) {
	r := reply{text: strings.TrimSpace(text)}
	if !utf8.ValidString(text) {
		r = reply{err: ErrInvalidUTF8}
	}
	select {
	case s.ch <- r:
	default:
	}
}

type replyCapture struct {
	id    string
	first string
	lines int
}

func (c *Connection) pushReply(s *replySlot) {
	c.replyMu.Lock()
	c.replies[s.id] = s
	c.replyMu.Unlock()
}

func (c *Connection) takeReply(id string) *replySlot {
	c.replyMu.Lock()
	defer c.replyMu.Unlock()
	s, ok := c.replies[id]
	if !ok {
		return nil
	}
	delete(c.replies, id)
	return s
}

func (c *Connection) removeReply(id string) {
	c.replyMu.Lock()
	delete(c.replies, id)
	c.replyMu.Unlock()
}
