package debugpanel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/shlex"
)

// ErrQuit is returned by Execute for the quit command.
var ErrQuit = errors.New("quit")

const consoleHelp = `commands:
  set <control> <value>     edit and commit immediately
  input <control> <value>   edit; commits after the debounce quiet period
  show                      print every control
  help                      print this help
  quit                      stop the demo

quote colours, since # starts a comment: set lightColor "#ffffff"
`

// Console drives a Panel from text commands, one per line. Edits are applied
// through dispatch so they run on the goroutine that owns the panel.
type Console struct {
	panel     *Panel
	debouncer *Debouncer
	dispatch  Dispatcher

	outMu sync.Mutex
	out   io.Writer
}

// NewConsole creates a console. A nil debouncer makes input behave like set.
func NewConsole(panel *Panel, debouncer *Debouncer, dispatch Dispatcher, out io.Writer) *Console {
	if dispatch == nil {
		dispatch = Direct
	}
	if out == nil {
		out = io.Discard
	}
	return &Console{panel: panel, debouncer: debouncer, dispatch: dispatch, out: out}
}

// Run executes commands read from in until EOF or the quit command. ctx is
// checked between lines. Command errors are printed and do not stop the
// console.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.Execute(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Execute runs a single command line.
func (c *Console) Execute(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "set", "input":
		if len(args) != 3 {
			return fmt.Errorf("usage: %s <control> <value>", args[0])
		}
		ctl, err := c.panel.Controller(args[1])
		if err != nil {
			return err
		}
		if err := ctl.Validate(args[2]); err != nil {
			return err
		}
		raw := args[2]
		if strings.EqualFold(args[0], "input") && c.debouncer != nil {
			c.dispatch(func() {
				if ctl.Input(raw) == nil {
					c.debouncer.Touch(ctl)
				}
			})
			return nil
		}
		c.dispatch(func() {
			if ctl.Input(raw) == nil {
				ctl.Finish()
			}
		})
		return nil
	case "show":
		c.dispatch(func() {
			for _, ctl := range c.panel.Controllers() {
				c.printf("%-22s %s\n", ctl.Name(), ctl.Value())
			}
		})
		return nil
	case "help", "?":
		c.printf("%s", consoleHelp)
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
}

func (c *Console) printf(format string, v ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, v...)
}
