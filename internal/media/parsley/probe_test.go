package parsley

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
)

const listingOutput = `Atom "©nam" contains: Home Video Title
Atom "©too" contains: Lavf61.1.100
Atom "desc" contains: A long-winded description.
`

func TestProbeExtractsAtoms(t *testing.T) {
	p := NewProber("/usr/bin/AtomicParsley", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if len(args) != 2 || args[0] != "/films/clip.mp4" || args[1] != "-t" {
			t.Fatalf("unexpected args: %v", args)
		}
		return []byte(listingOutput), nil
	})

	meta, err := p.Probe(context.Background(), "/films/clip.mp4")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if meta.Title != "Home Video Title" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "A long-winded description." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.IsEmpty() {
		t.Error("metadata must not be empty")
	}
}

func TestProbeNoAtoms(t *testing.T) {
	p := NewProber("AtomicParsley", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`Atom "©too" contains: Lavf61.1.100`), nil
	})

	meta, err := p.Probe(context.Background(), "clip.mp4")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if !meta.IsEmpty() {
		t.Errorf("expected empty metadata, got %+v", meta)
	}
}

func TestProbeMissingBinary(t *testing.T) {
	p := NewProber("", logging.NewNop())
	if _, err := p.Probe(context.Background(), "clip.mp4"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}

	p = NewProber("AtomicParsley", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	})
	if _, err := p.Probe(context.Background(), "clip.mp4"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound for exec error, got %v", err)
	}
}

func TestProbeToolFailure(t *testing.T) {
	runErr := exec.Command("sh", "-c", "exit 1").Run()
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		t.Skipf("cannot produce exit error on this platform: %v", runErr)
	}

	p := NewProber("AtomicParsley", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, runErr
	})
	if _, err := p.Probe(context.Background(), "clip.mp4"); !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}
