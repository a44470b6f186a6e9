package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fivetwenty-io/powerbi/internal/constants"
)

// TerminalPrompter asks the user to open the authorization URL and paste
// back the URL the browser was redirected to.
type TerminalPrompter struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewTerminalPrompter prompts on stdin/stdout and refuses to run when stdin
// is not a terminal.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:  os.Stdin,
		out: os.Stdout,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// NewReaderPrompter prompts on arbitrary streams, e.g. a pipe in scripts.
func NewReaderPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:          in,
		out:         out,
		interactive: func() bool { return true },
	}
}

// Prompt implements powerbi.Prompter.
func (p *TerminalPrompter) Prompt(ctx context.Context, authURL string) (string, error) {
	if !p.interactive() {
		return "", constants.ErrTerminalRequired
	}

	_, _ = fmt.Fprintf(p.out, "Please go to the URL below and authorize your account:\n\n  %s\n\n", authURL)
	_, _ = fmt.Fprint(p.out, "Paste the full redirect URL here: ")

	lines := make(chan string, 1)
	errs := make(chan error, 1)

	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			errs <- fmt.Errorf("reading redirect URL: %w", err)

			return
		}

		lines <- line
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for redirect URL: %w", ctx.Err())
	case err := <-errs:
		return "", err
	case line := <-lines:
		line = strings.TrimSpace(line)
		if line == "" {
			return "", constants.ErrEmptyRedirectURL
		}

		return line, nil
	}
}
