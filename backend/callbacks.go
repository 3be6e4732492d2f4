package tkbackend

import "sync"

// registry maps callback keys to closures of one payload shape.
type registry[F any] struct {
	mu sync.Mutex
	m  map[string]F
}

// set replaces any closure already registered under key.
func (r *registry[F]) set(key string, fn F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string]F)
	}
	r.m[key] = fn
}

func (r *registry[F]) get(key string) (F, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.m[key]
	return fn, ok
}

type callbacks struct {
	command registry[func()]
	toggle  registry[func(bool)]
	event   registry[func(Event)]
	scale   registry[func(float64)]
	font    registry[func(Font)]
}

// dispatch calls the closure registered for msg, if there is one. The
// closure runs on the calling goroutine and outside the registry lock, so
// it may register further callbacks. It reports whether a closure ran.
func (cb *callbacks) dispatch(msg Message) bool {
	switch msg.Kind {
	case MessageClicked:
		if fn, ok := cb.command.get(msg.Key); ok {
			fn()
			return true
		}
	case MessageBool:
		if fn, ok := cb.toggle.get(msg.Key); ok {
			fn(msg.Bool)
			return true
		}
	case MessageEvent:
		if fn, ok := cb.event.get(msg.Key); ok {
			fn(msg.Event)
			return true
		}
	case MessageFloat:
		if fn, ok := cb.scale.get(msg.Key); ok {
			fn(msg.Float)
			return true
		}
	case MessageFont:
		if fn, ok := cb.font.get(msg.Key); ok {
			fn(msg.Font)
			return true
		}
	}
	return false
}

// RegisterCommand sets the closure run for "clicked<key>" lines.
func (c *Connection) RegisterCommand(key string, fn func()) {
	c.callbacks.command.set(key, fn)
}

// RegisterBool sets the closure run for "cb1b-<key>-<value>" lines.
func (c *Connection) RegisterBool(key string, fn func(bool)) {
	c.callbacks.toggle.set(key, fn)
}

// RegisterEvent sets the closure run for "cb1e:<key>:..." lines. For bound
// events the key is the bind tag followed by the event pattern, since one
// tag can have many patterns bound.
func (c *Connection) RegisterEvent(key string, fn func(Event)) {
	c.callbacks.event.set(key, fn)
}

// RegisterFloat sets the closure run for "cb1f-<key>-<value>" lines.
func (c *Connection) RegisterFloat(key string, fn func(float64)) {
	c.callbacks.scale.set(key, fn)
}

// RegisterFont sets the closure run when the font chooser reports a font.
func (c *Connection) RegisterFont(fn func(Font)) {
	c.callbacks.font.set(fontKey, fn)
}
