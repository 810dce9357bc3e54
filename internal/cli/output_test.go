package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"batch failure", NewExitError(ExitFailure, "3 file(s) failed"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "inner")), ExitFailure},
		{"plain error", errors.New("boom"), ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapExitError(ExitCommandError, "connecting to database", inner)
	if !errors.Is(err, inner) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if got := err.Error(); got != "connecting to database: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewExitError(ExitFailure, "just a message").Error(); got != "just a message" {
		t.Errorf("Error() = %q", got)
	}
}
