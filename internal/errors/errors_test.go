package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *DomainError
		want string
	}{
		{
			name: "with wrapped error",
			err:  New("trello", "GetBoard", ErrNotFound, fmt.Errorf("board missing")),
			want: "trello.GetBoard: not found: board missing",
		},
		{
			name: "without wrapped error",
			err:  New("credentials", "Resolve", ErrAuthRequired, nil),
			want: "credentials.Resolve: authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    *DomainError
		target error
		want   bool
	}{
		{
			name:   "matches kind",
			err:    New("trello", "GetCards", ErrUnauthorized, fmt.Errorf("rejected")),
			target: ErrUnauthorized,
			want:   true,
		},
		{
			name:   "matches wrapped error",
			err:    New("tools", "Execute", ErrInternal, ErrRateLimited),
			target: ErrRateLimited,
			want:   true,
		},
		{
			name:   "no match",
			err:    New("trello", "GetCards", ErrNotFound, nil),
			target: ErrUnauthorized,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("network down")
	err := New("trello", "ListBoards", ErrInternal, inner)

	if got := errors.Unwrap(err); got != inner {
		t.Errorf("Unwrap() = %v, want %v", got, inner)
	}
}

func TestDomainError_WithContext(t *testing.T) {
	t.Parallel()

	err := New("trello", "GetBoard", ErrNotFound, nil).
		WithContext("status", 404).
		WithContext("board_id", "abc123")

	if err.Context["status"] != 404 {
		t.Errorf("Context[status] = %v, want 404", err.Context["status"])
	}
	if err.Context["board_id"] != "abc123" {
		t.Errorf("Context[board_id] = %v, want abc123", err.Context["board_id"])
	}
}
