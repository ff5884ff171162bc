package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interfaces are importable and usable.
func TestStoreInterfacesExist(t *testing.T) {
	var _ Store
	var _ Archiver

	wrapped := fmt.Errorf("reading marker: %w", ErrNoMarker)
	if !errors.Is(wrapped, ErrNoMarker) {
		t.Error("expected wrapped error to match ErrNoMarker")
	}
}
