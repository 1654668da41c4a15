package commonerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_DerivedCopiesMatchSentinel(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("write: %w", ErrProfileWriteFailed.WithCause(cause).WithDetails(map[string]string{"name": "x"}))

	if !errors.Is(err, ErrProfileWriteFailed) {
		t.Error("derived error must match its sentinel")
	}
	if errors.Is(err, ErrProfileReadFailed) {
		t.Error("different codes must not match")
	}
	if !errors.Is(err, cause) {
		t.Error("cause must stay reachable")
	}

	de, ok := AsDomainError(err)
	if !ok {
		t.Fatal("expected a DomainError")
	}
	if de.Message() != "Failed to update profile" || de.Details()["name"] != "x" {
		t.Errorf("unexpected error %q %v", de.Message(), de.Details())
	}
	if ErrProfileWriteFailed.Details() != nil || ErrProfileWriteFailed.Unwrap() != nil {
		t.Error("sentinel was mutated")
	}
}
