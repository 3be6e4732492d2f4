// tkbackend drives a Tcl/Tk interpreter ("wish") from Go to build user interfaces.
//
// The interpreter runs as a separate process. Go sends it Tcl commands on its standard input, and it
// prints replies and callback notices on its standard output. There is no cgo and no native code in the
// Go program; everything about rendering, layout and look is left to Tk.
//
// Connection
//
// Connection is one session with an interpreter. NewConnection launches the executable named in the
// Config when Start is called; NewConnectionSplit attaches to streams that already lead to one, which is
// also how tests run against a fake host. Start writes a short preamble and returns the root window.
//
//  c := tkbackend.NewConnection(tkbackend.DefaultConfig())
//  root, err := c.Start()
//  if err != nil {
//      log.Fatal(err)
//  }
//  label, _ := root.NewChild("ttk::label", "-text", "{Hello}")
//  c.Send("grid " + label.ID())
//  c.Run()
//
// Send queues a command and returns immediately. Commands are written in the order they were sent.
// Eval runs a script and returns the first line it prints. Its output is framed by reply markers, so
// whatever the script prints is never taken for a callback notice. Eval can be called from any
// goroutine, including from inside callbacks.
//
// Callbacks
//
// Widgets report back by printing tagged lines: "clicked-<id>" for commands, "cb1b-<id>-<0|1>" for
// toggles, "cb1f-<id>-<value>" for scales, "cb1e:<key>:..." for bound events and "font ..." from the font
// chooser. Widget.OnCommand, OnToggle, OnScale, Bind and Connection.ChooseFont set these up and register
// the Go function to call. Registering again under the same key replaces the earlier function.
//
// Callbacks run inside Process, on whichever goroutine calls it. Run is a loop of ProcessSignal and
// Process that ends when the user closes the main window; RunLockable runs that loop in the background and
// hands out a sync.Locker for exclusive access to data the callbacks touch.
//
// Identifiers
//
// Every widget is named by a Tk path. The root is "." and children are "<parent>.r<N>", where N comes
// from a counter owned by the connection that only ever increases.
//
// For programs that need only one interpreter, the backend/wishapp package keeps a single connection
// for the whole program.
package tkbackend
