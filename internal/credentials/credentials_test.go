package credentials

import (
	"errors"
	"strings"
	"testing"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

func TestCredentials_Validate(t *testing.T) {
	t.Parallel()

	valid := strings.Repeat("a", MinLength)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{
			name:  "valid pair",
			creds: Credentials{APIKey: valid, Token: valid},
		},
		{
			name:  "valid pair with whitespace",
			creds: Credentials{APIKey: "  " + valid + "  ", Token: valid},
		},
		{
			name:    "empty key",
			creds:   Credentials{APIKey: "", Token: valid},
			wantErr: true,
		},
		{
			name:    "empty token",
			creds:   Credentials{APIKey: valid, Token: ""},
			wantErr: true,
		},
		{
			name:    "key too short",
			creds:   Credentials{APIKey: strings.Repeat("a", MinLength-1), Token: valid},
			wantErr: true,
		},
		{
			name:    "token too short",
			creds:   Credentials{APIKey: valid, Token: "tok"},
			wantErr: true,
		},
		{
			name:    "whitespace only",
			creds:   Credentials{APIKey: "   ", Token: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.creds.Validate()
			if tt.wantErr {
				if !errors.Is(err, internalerrors.ErrBadRequest) {
					t.Errorf("Validate() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestCredentials_Trimmed(t *testing.T) {
	t.Parallel()

	creds := Credentials{APIKey: "  key  ", Token: "\ttoken\n"}
	got := creds.Trimmed()

	if got.APIKey != "key" || got.Token != "token" {
		t.Errorf("Trimmed() = %+v", got)
	}
}

func TestCredentials_IsZero(t *testing.T) {
	t.Parallel()

	if !(Credentials{}).IsZero() {
		t.Error("IsZero() = false for zero pair")
	}
	if (Credentials{APIKey: "k"}).IsZero() {
		t.Error("IsZero() = true for partial pair")
	}
}
