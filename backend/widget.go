package tkbackend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Widget is a handle on a Tk widget created through a Connection. Its
// identifier is the Tk path name and addresses every command and callback
// for the widget.
type Widget struct {
	c  *Connection
	id string
}

func (w *Widget) Connection() *Connection {
	return w.c
}

// ID returns the Tk path name, e.g. ".r3.r7".
func (w *Widget) ID() string {
	return w.id
}

// NewChild creates a widget under w by sending "<command> <id> <options...>",
// for example NewChild("ttk::label", "-text", "{Hello}").
func (w *Widget) NewChild(command string, options ...string) (*Widget, error) {
	id := w.c.NextID(w.id)
	msg := command + " " + id
	if len(options) > 0 {
		msg += " " + strings.Join(options, " ")
	}
	if err := w.c.Send(msg); err != nil {
		return nil, err
	}
	return &Widget{c: w.c, id: id}, nil
}

// Bind calls fn for every event matching pattern (e.g. "<Button-1>") on w.
func (w *Widget) Bind(pattern string, fn func(Event)) error {
	return w.c.bindTo(w.id, pattern, fn)
}

// BindAll calls fn for events matching pattern on every widget.
func (c *Connection) BindAll(pattern string, fn func(Event)) error {
	return c.bindTo("all", pattern, fn)
}

func (c *Connection) bindTo(tag, pattern string, fn func(Event)) error {
	key := tag + pattern
	c.RegisterEvent(key, fn)
	return c.Send(fmt.Sprintf("bind %s %s { puts cb1e:%s:%%x:%%y:%%X:%%Y:%%h:%%w:%%k:%%K:%%b ; flush stdout }",
		tag, pattern, key))
}

// OnCommand runs fn when w's -command fires (a button press, a menu item).
func (w *Widget) OnCommand(fn func()) error {
	w.c.RegisterCommand(w.id, fn)
	return w.c.Send(fmt.Sprintf("%s configure -command { puts clicked-%s ; flush stdout }", w.id, w.id))
}

// OnToggle ties w's -variable to a global and runs fn with its new value
// whenever w's -command fires, as for a check button.
func (w *Widget) OnToggle(fn func(bool)) error {
	w.c.RegisterBool(w.id, fn)
	v := "::var" + w.id
	return w.c.Send(fmt.Sprintf("%s configure -variable %s -command { puts cb1b-%s-[set %s] ; flush stdout }",
		w.id, v, w.id, v))
}

// OnScale runs fn with the new value whenever a scale widget moves.
func (w *Widget) OnScale(fn func(float64)) error {
	w.c.RegisterFloat(w.id, fn)
	return w.c.Send(fmt.Sprintf("%s configure -command [list scale_value %s]", w.id, w.id))
}

// ChooseFont shows the Tk font chooser over parent and runs fn with each
// font the user applies.
func (c *Connection) ChooseFont(parent *Widget, fn func(Font)) error {
	c.RegisterFont(fn)
	if err := c.Send(fmt.Sprintf("tk fontchooser configure -parent %s -command [list font_choice %s]",
		parent.id, parent.id)); err != nil {
		return err
	}
	return c.Send("tk fontchooser show")
}

// Configure sets one option, given without its leading dash. The value is
// passed literally.
func (w *Widget) Configure(option, value string) error {
	return w.c.Send(fmt.Sprintf("%s configure -%s %s", w.id, option, Quote(value)))
}

// Destroy destroys w and its children. Destroying the root window ends the
// host.
func (w *Widget) Destroy() error {
	return w.c.Send("destroy " + w.id)
}

func (w *Widget) Focus() error {
	return w.c.Send("focus " + w.id)
}

// Title sets the window manager title of a toplevel.
func (w *Widget) Title(title string) error {
	return w.c.Send(fmt.Sprintf("wm title %s %s", w.id, Quote(title)))
}

// Cget returns the current value of one option.
func (w *Widget) Cget(ctx context.Context, option string) (string, error) {
	return w.c.Eval(ctx, fmt.Sprintf("puts [%s cget -%s] ; flush stdout", w.id, option))
}

// Winfo returns "winfo <option>" for w, e.g. Winfo(ctx, "class").
func (w *Widget) Winfo(ctx context.Context, option string) (string, error) {
	return w.c.Eval(ctx, fmt.Sprintf("puts [winfo %s %s] ; flush stdout", option, w.id))
}

// WinfoInt is Winfo for numeric options such as "width" or "x".
func (w *Widget) WinfoInt(ctx context.Context, option string) (int, error) {
	s, err := w.Winfo(ctx, option)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("winfo %s %s: %w", option, w.id, err)
	}
	return v, nil
}
