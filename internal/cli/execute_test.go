package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"cancelled", fmt.Errorf("logo.svg: %w", context.Canceled), ExitInterrupted},
		{"bad input", errors.New(errors.ErrCodeInvalidMode, "unknown mode"), ExitClientError},
		{"bad source", errors.New(errors.ErrCodeRasterize, "not an image"), ExitClientError},
		{"invariant", errors.Invariant("row does not partition"), ExitFailure},
		{"plain", fmt.Errorf("disk full"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExecute_ConflictingLogFlags(t *testing.T) {
	var stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--verbose", "--quiet", "cache", "info"}, &stderr)

	if code != ExitClientError {
		t.Errorf("Execute() = %d, want %d", code, ExitClientError)
	}
	got := stderr.String()
	if !strings.HasPrefix(got, "blockify: ") || !strings.Contains(got, "mutually exclusive") {
		t.Errorf("stderr = %q, want prefixed message", got)
	}
	if strings.Contains(got, string(errors.ErrCodeInvalidInput)) {
		t.Errorf("stderr = %q, code shown outside debug level", got)
	}
}

func TestExecute_Version(t *testing.T) {
	if code := Execute(context.Background(), []string{"--version"}, &bytes.Buffer{}); code != ExitOK {
		t.Errorf("Execute(--version) = %d, want %d", code, ExitOK)
	}
}
