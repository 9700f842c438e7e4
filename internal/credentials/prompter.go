package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// Prompter acquires a credential pair interactively. Production
// implementations talk to a terminal; tests substitute a scripted responder.
type Prompter interface {
	// PromptForCredentials surfaces the reference URL to the user and
	// blocks until a credential pair is read or the context is cancelled.
	// Returns ErrAuthRequired when no interactive channel is available
	// or the user aborts.
	PromptForCredentials(ctx context.Context, referenceURL string) (Credentials, error)
}

// terminalPrompter reads credentials from an interactive terminal,
// opening the reference URL in a browser when possible.
type terminalPrompter struct {
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

// NewTerminalPrompter creates a Prompter backed by stdin/stdout.
func NewTerminalPrompter(logger *zap.Logger) Prompter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &terminalPrompter{
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logger.With(zap.String("component", "prompter")),
	}
}

// PromptForCredentials prints login instructions, opens the browser, and
// reads the API key and token, re-prompting until each passes the
// minimum-length check.
func (p *terminalPrompter) PromptForCredentials(ctx context.Context, referenceURL string) (Credentials, error) {
	if !p.interactive() {
		return Credentials{}, internalerrors.New("credentials", "PromptForCredentials",
			internalerrors.ErrAuthRequired, fmt.Errorf("no interactive terminal available"))
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, strings.Repeat("=", 60))
	fmt.Fprintln(p.out, "TRELLO LOGIN REQUIRED")
	fmt.Fprintln(p.out, strings.Repeat("=", 60))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Please authenticate with Trello:")
	fmt.Fprintf(p.out, "\n1. A browser window will open to %s\n", referenceURL)
	fmt.Fprintln(p.out, "2. Copy your API Key (shown at the top)")
	fmt.Fprintln(p.out, "3. Click 'Token' link to generate/view your Token")
	fmt.Fprintln(p.out, "4. Return here and paste both values")
	fmt.Fprintln(p.out)

	if err := openBrowser(referenceURL); err != nil {
		p.logger.Warn("could not open browser", zap.Error(err))
		fmt.Fprintf(p.out, "Could not automatically open browser.\nPlease manually visit: %s\n", referenceURL)
	}

	reader := bufio.NewReader(p.in)

	apiKey, err := p.readValue(ctx, reader, "Enter your Trello API Key: ")
	if err != nil {
		return Credentials{}, err
	}
	token, err := p.readValue(ctx, reader, "Enter your Trello Token: ")
	if err != nil {
		return Credentials{}, err
	}

	fmt.Fprintln(p.out, "\nCredentials received and cached for this session")

	return Credentials{APIKey: apiKey, Token: token}, nil
}

// readValue reads one value, re-prompting until it meets the minimum length.
// Reading runs in a goroutine so context cancellation can abort the wait.
func (p *terminalPrompter) readValue(ctx context.Context, reader *bufio.Reader, prompt string) (string, error) {
	type lineResult struct {
		value string
		err   error
	}

	for {
		fmt.Fprint(p.out, prompt)

		ch := make(chan lineResult, 1)
		go func() {
			line, err := reader.ReadString('\n')
			ch <- lineResult{value: strings.TrimSpace(line), err: err}
		}()

		select {
		case <-ctx.Done():
			return "", internalerrors.New("credentials", "PromptForCredentials",
				internalerrors.ErrAuthRequired, ctx.Err())
		case res := <-ch:
			if res.err != nil {
				return "", internalerrors.New("credentials", "PromptForCredentials",
					internalerrors.ErrAuthRequired, res.err)
			}
			if len(res.value) >= MinLength {
				return res.value, nil
			}
			fmt.Fprintf(p.out, "Invalid value. Should be at least %d characters.\n\n", MinLength)
		}
	}
}

// interactive reports whether stdin is attached to a terminal.
func (p *terminalPrompter) interactive() bool {
	f, ok := p.in.(*os.File)
	if !ok {
		// Non-file readers (tests) are treated as interactive.
		return true
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// openBrowser opens the URL with the platform launcher.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
