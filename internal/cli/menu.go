package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/gatepass/internal/adapters/cli"
	"github.com/example/gatepass/internal/wire"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive access-code menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

// MenuCmd returns the menu command
func MenuCmd() *cobra.Command {
	return menuCmd
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	path := wire.Config().StorePath
	out := cmd.OutOrStdout()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	session := newMenuSession(wire.CodeAdapterWithOutput(out), line, out, path)
	fmt.Fprintln(out, "========== ACCESS CONTROL ==========")
	fmt.Fprintf(out, "Loading codes from %s ...\n", path)
	if err := session.adapter.Load(ctx, path); err != nil {
		return err
	}
	return session.run(ctx)
}

// lineReader reads one line of input after showing a prompt.
// *liner.State satisfies it.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// menuSession holds the state of one interactive menu run.
type menuSession struct {
	adapter   *cliadapter.CodeAdapter
	in        lineReader
	out       io.Writer
	storePath string
	done      bool
}

func newMenuSession(adapter *cliadapter.CodeAdapter, in lineReader, out io.Writer, storePath string) *menuSession {
	return &menuSession{
		adapter:   adapter,
		in:        in,
		out:       out,
		storePath: storePath,
	}
}

// run shows the menu until the user exits or input ends. The store is saved
// on the way out in both cases, and a failed final save is returned.
func (s *menuSession) run(ctx context.Context) error {
	for !s.done {
		s.printMenu()
		choice, err := s.in.Prompt("Choose an option: ")
		if err != nil {
			if isEndOfInput(err) {
				fmt.Fprintln(s.out)
				return s.exit(ctx)
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if err := s.handle(ctx, strings.TrimSpace(choice)); err != nil {
			if s.done {
				return err
			}
			fmt.Fprintf(s.out, "✗ %v\n", err)
		}
	}
	return nil
}

func (s *menuSession) printMenu() {
	fmt.Fprintln(s.out, "\n=== MENU ===")
	fmt.Fprintln(s.out, "1 - Use a VISITOR code")
	fmt.Fprintln(s.out, "2 - Use a CONTRACTOR code")
	fmt.Fprintln(s.out, "3 - Show all codes")
	fmt.Fprintln(s.out, "4 - Generate new codes")
	fmt.Fprintln(s.out, "0 - Exit")
}

// handle runs one menu option. Errors end the session only when the option
// itself ended it.
func (s *menuSession) handle(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.adapter.Issue(ctx, "visitor")
	case "2":
		return s.adapter.Issue(ctx, "contractor")
	case "3":
		return s.adapter.List(ctx)
	case "4":
		return s.generate(ctx)
	case "0":
		return s.exit(ctx)
	default:
		return fmt.Errorf("invalid option %q, try again", choice)
	}
}

func (s *menuSession) generate(ctx context.Context) error {
	countText, err := s.in.Prompt("How many new codes? ")
	if err != nil {
		return s.promptError(ctx, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil || count <= 0 {
		return fmt.Errorf("invalid count %q", strings.TrimSpace(countText))
	}

	variant, err := s.in.Prompt("1 - Visitor | 2 - Contractor: ")
	if err != nil {
		return s.promptError(ctx, err)
	}
	return s.adapter.Generate(ctx, count, strings.TrimSpace(variant), s.storePath)
}

func (s *menuSession) exit(ctx context.Context) error {
	s.done = true
	fmt.Fprintln(s.out, "Shutting down...")
	return s.adapter.Save(ctx, s.storePath)
}

// promptError ends the session on end of input; other read errors are reported.
func (s *menuSession) promptError(ctx context.Context, err error) error {
	if isEndOfInput(err) {
		return s.exit(ctx)
	}
	return fmt.Errorf("failed to read input: %w", err)
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, os.ErrClosed)
}
