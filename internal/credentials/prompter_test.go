package credentials

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

func TestTerminalPrompter_ReadsPair(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(testKey + "\n" + testToken + "\n")
	var out bytes.Buffer
	p := &terminalPrompter{in: in, out: &out, logger: zap.NewNop()}

	creds, err := p.PromptForCredentials(context.Background(), LoginURL)
	if err != nil {
		t.Fatalf("PromptForCredentials() error = %v", err)
	}
	if creds.APIKey != testKey || creds.Token != testToken {
		t.Errorf("PromptForCredentials() = %+v", creds)
	}
	if !strings.Contains(out.String(), "TRELLO LOGIN REQUIRED") {
		t.Error("missing login banner in output")
	}
}

func TestTerminalPrompter_RepromptsShortValues(t *testing.T) {
	t.Parallel()

	// First key attempt is too short and must be re-prompted.
	in := strings.NewReader("short\n" + testKey + "\n" + testToken + "\n")
	var out bytes.Buffer
	p := &terminalPrompter{in: in, out: &out, logger: zap.NewNop()}

	creds, err := p.PromptForCredentials(context.Background(), LoginURL)
	if err != nil {
		t.Fatalf("PromptForCredentials() error = %v", err)
	}
	if creds.APIKey != testKey {
		t.Errorf("APIKey = %q, want re-prompted value", creds.APIKey)
	}
	if !strings.Contains(out.String(), "Invalid value") {
		t.Error("missing re-prompt message in output")
	}
}

func TestTerminalPrompter_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pipe with no writer never produces a line.
	in, pw := io.Pipe()
	defer pw.Close() //nolint:errcheck
	var out bytes.Buffer
	p := &terminalPrompter{in: in, out: &out, logger: zap.NewNop()}

	_, err := p.PromptForCredentials(ctx, LoginURL)
	if !errors.Is(err, internalerrors.ErrAuthRequired) {
		t.Errorf("PromptForCredentials() error = %v, want ErrAuthRequired", err)
	}
}

func TestTerminalPrompter_EOF(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &terminalPrompter{in: strings.NewReader(""), out: &out, logger: zap.NewNop()}

	_, err := p.PromptForCredentials(context.Background(), LoginURL)
	if !errors.Is(err, internalerrors.ErrAuthRequired) {
		t.Errorf("PromptForCredentials() error = %v, want ErrAuthRequired", err)
	}
}
