// Command fakewish speaks the wish side of the tkbackend protocol on
// stdin/stdout without a display. Point Config.Executable at it to run a
// program headless; each -emit line is printed once the host starts.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/special/tkbackend/internal/fakewish"
)

type lines []string

func (l *lines) String() string     { return strings.Join(*l, ", ") }
func (l *lines) Set(s string) error { *l = append(*l, s); return nil }

func main() {
	var emit lines
	flag.Var(&emit, "emit", "line to print at startup (repeatable)")
	exitAfter := flag.Duration("exit-after", 0, "print \"exit\" after this long (0 to never)")
	flag.Parse()

	host := fakewish.New(os.Stdin, os.Stdout)
	if err := host.Emit(emit...); err != nil {
		fmt.Fprintln(os.Stderr, "fakewish:", err)
		os.Exit(1)
	}
	if *exitAfter > 0 {
		time.AfterFunc(*exitAfter, func() { host.Emit("exit") })
	}

	if err := host.Serve(); err != nil {
		fmt.Fprintln(os.Stderr, "fakewish:", err)
		os.Exit(1)
	}
}
