package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("course %s", "x")); got != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", got)
	}

	// wrapped domain errors keep their kind
	wrapped := fmt.Errorf("saving: %w", Conflict("duplicate code"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Fatalf("expected KindConflict through wrap, got %v", got)
	}

	if got := KindOf(errors.New("disk on fire")); got != KindUnknown {
		t.Fatalf("plain error should be KindUnknown, got %v", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("nil should be KindUnknown, got %v", got)
	}
}

func TestIsDomain(t *testing.T) {
	if !IsDomain(InvalidArgument("bad role")) {
		t.Fatal("taxonomy error should be domain")
	}
	if IsDomain(errors.New("deadlock")) {
		t.Fatal("plain error should not be domain")
	}
}
