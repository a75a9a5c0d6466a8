package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// Command is a top-level console command such as "cwiz" or "demo".
type Command struct {
	Name  string
	Help  string
	Usage string
	Run   func(ctx context.Context, args []string) error
}

// Register adds cmd to the console. A later registration with the same name
// replaces the earlier one.
func (c *Console) Register(cmd Command) {
	for i := range c.commands {
		if c.commands[i].Name == cmd.Name {
			c.commands[i] = cmd
			return
		}
	}
	c.commands = append(c.commands, cmd)
}

func (c *Console) registerHelp() {
	help := Command{
		Name:  "help",
		Help:  "List the available commands",
		Usage: "help",
		Run: func(context.Context, []string) error {
			c.printHelp()
			return nil
		},
	}
	c.Register(help)
	help.Name = "?"
	c.Register(help)
}

func (c *Console) printHelp() {
	var b strings.Builder
	b.WriteString("\r\n")
	for _, cmd := range c.commands {
		if cmd.Name == "?" {
			continue
		}
		fmt.Fprintf(&b, "%-10s %s\r\n", cmd.Name, cmd.Help)
		if cmd.Usage != "" {
			fmt.Fprintf(&b, "%-10s Usage: %s\r\n", "", cmd.Usage)
		}
	}
	c.Print(b.String())
}

// Dispatch tokenizes line with shell quoting rules and runs the matching
// command. Blank lines are ignored.
func (c *Console) Dispatch(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		c.Print("Invalid command line\r\n")
		return fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	if len(args) == 0 {
		return nil
	}

	for _, cmd := range c.commands {
		if cmd.Name == args[0] {
			c.logger.Info("console command", "command", cmd.Name, "args", args[1:])
			return cmd.Run(ctx, args[1:])
		}
	}

	c.Printf("Unknown command: %s\r\n", args[0])
	return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
}

// Run reads and dispatches commands until the input ends or ctx is done.
// Command failures are logged and do not stop the loop.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Print(c.prompt)
		line, err := c.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := c.Dispatch(ctx, line); err != nil {
			c.logger.Warn("console command failed", "line", line, "error", err)
		}
	}
}
