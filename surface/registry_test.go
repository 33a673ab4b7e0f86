package surface

import (
	"errors"
	"fmt"
	"testing"
)

// stubTarget records nothing; registry tests only care about selection.
type stubTarget struct {
	name string
}

func (t *stubTarget) Bounds() (uint32, uint32)                 { return 1, 1 }
func (t *stubTarget) Scale() float32                           { return 1 }
func (t *stubTarget) Present([]byte) error                     { return nil }
func (t *stubTarget) Reconfigure(uint32, uint32, float32) error { return nil }
func (t *stubTarget) Close() error                             { return nil }

func stubFactory(name string) Factory {
	return func(Descriptor) (Target, error) {
		return &stubTarget{name: name}, nil
	}
}

func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory("low"), nil)
	r.Register("high", 100, stubFactory("high"), nil)

	target, err := r.Acquire(Descriptor{Width: 1, Height: 1, Scale: 1})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got := target.(*stubTarget).name; got != "high" {
		t.Errorf("Acquire picked %q, want %q", got, "high")
	}

	names := r.List()
	if len(names) != 2 || names[0] != "high" || names[1] != "low" {
		t.Errorf("List = %v, want [high low]", names)
	}
}

func TestRegistry_DeclineFallsThrough(t *testing.T) {
	r := NewRegistry()
	r.Register("picky", 100, func(Descriptor) (Target, error) {
		return nil, fmt.Errorf("wrong ref: %w", ErrRefUnsupported)
	}, nil)
	r.Register("fallback", 10, stubFactory("fallback"), nil)

	target, err := r.Acquire(Descriptor{Width: 1, Height: 1, Scale: 1})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got := target.(*stubTarget).name; got != "fallback" {
		t.Errorf("Acquire picked %q, want %q", got, "fallback")
	}
}

func TestRegistry_UnavailableSkipped(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", 100, stubFactory("broken"), func() bool { return false })
	r.Register("working", 10, stubFactory("working"), nil)

	target, err := r.Acquire(Descriptor{Width: 1, Height: 1, Scale: 1})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got := target.(*stubTarget).name; got != "working" {
		t.Errorf("Acquire picked %q, want %q", got, "working")
	}

	if _, err := r.AcquireByName("broken", Descriptor{}); err == nil {
		t.Fatal("AcquireByName on unavailable provider should fail")
	} else {
		var unavailable *ProviderUnavailableError
		if !errors.As(err, &unavailable) || unavailable.Name != "broken" {
			t.Errorf("error = %v, want ProviderUnavailableError{broken}", err)
		}
	}
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.AcquireByName("missing", Descriptor{})
	var notFound *ProviderNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "missing" {
		t.Errorf("error = %v, want ProviderNotFoundError{missing}", err)
	}
}

func TestRegistry_NoneAvailable(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Acquire(Descriptor{}); !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("error = %v, want ErrNoProviderAvailable", err)
	}

	r.Register("down", 50, stubFactory("down"), func() bool { return false })
	if _, err := r.Acquire(Descriptor{}); !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("error with only unavailable providers = %v, want ErrNoProviderAvailable", err)
	}
}

func TestRegistry_RealFailurePropagates(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("device wedged")
	r.Register("flaky", 100, func(Descriptor) (Target, error) {
		return nil, boom
	}, nil)

	_, err := r.Acquire(Descriptor{Width: 1, Height: 1, Scale: 1})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want the provider failure", err)
	}
}

func TestGlobalRegistry_MemoryProvider(t *testing.T) {
	names := List()
	found := false
	for _, n := range names {
		if n == "memory" {
			found = true
		}
	}
	if !found {
		t.Fatalf("global registry %v does not include the memory provider", names)
	}

	target, err := AcquireByName("memory", Descriptor{Width: 4, Height: 4, Scale: 2})
	if err != nil {
		t.Fatalf("acquire memory target: %v", err)
	}
	defer target.Close()

	w, h := target.Bounds()
	if w != 4 || h != 4 {
		t.Errorf("Bounds = %dx%d, want 4x4", w, h)
	}
	if target.Scale() != 2 {
		t.Errorf("Scale = %v, want 2", target.Scale())
	}
}
