package core

import (
	"errors"
	"testing"
)

func TestArenaReusesReleasedSlots(t *testing.T) {
	a := NewArena[string](4)
	h0 := a.Acquire("mesh")
	h1 := a.Acquire("skeleton")
	if h0.ID != 0 || h1.ID != 1 {
		t.Fatalf("unexpected ids %s %s", h0, h1)
	}

	if err := a.Release(h0); err != nil {
		t.Fatalf("Release: %v", err)
	}
	h2 := a.Acquire("package")
	if h2.ID != 0 {
		t.Errorf("expected released slot 0 to be reused, got %s", h2)
	}
	if h2.Generation == h0.Generation {
		t.Errorf("expected a new generation for the reused slot")
	}

	if _, err := a.Lookup(h0); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("stale handle resolved, err=%v", err)
	}
	got, err := a.Lookup(h2)
	if err != nil || got != "package" {
		t.Errorf("Lookup(h2) = %q, %v", got, err)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}

func TestArenaRejectsInvalidHandles(t *testing.T) {
	a := NewArena[int](0)
	if _, err := a.Lookup(InvalidHandle()); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
	if err := a.Release(Handle{ID: 7}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}
