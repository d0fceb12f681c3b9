package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\necho \"mkvmerge v99.0.0 ('Test') 64-bit\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestResolveAbsolutePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-only")
	}
	bin := fakeBinary(t, t.TempDir(), "mkvmerge")

	got, err := Resolve(bin, Mkvmerge)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != bin {
		t.Fatalf("Resolve = %q, want %q", got, bin)
	}
}

func TestResolveAbsolutePathMissing(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope"), Mkvmerge)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveUsesPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-only")
	}
	dir := t.TempDir()
	bin := fakeBinary(t, dir, "mkvpropedit")
	t.Setenv("PATH", dir)

	got, err := Resolve("", Mkvpropedit)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != bin {
		t.Fatalf("Resolve = %q, want %q", got, bin)
	}
}

func TestResolveNotAnywhere(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := Resolve("", "definitely-not-a-real-tool")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-only")
	}
	bin := fakeBinary(t, t.TempDir(), "mkvmerge")

	got := Version(context.Background(), bin)
	if got != "mkvmerge v99.0.0 ('Test') 64-bit" {
		t.Fatalf("Version = %q", got)
	}

	if got := Version(context.Background(), ""); got != "" {
		t.Fatalf("empty path must yield empty version, got %q", got)
	}
}

func TestCheck(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-only")
	}
	dir := t.TempDir()
	merge := fakeBinary(t, dir, "mkvmerge")
	t.Setenv("PATH", t.TempDir())

	absent := filepath.Join(dir, "absent")
	statuses := Check(context.Background(), merge, absent, absent)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Path != merge {
		t.Errorf("mkvmerge status: %+v", statuses[0])
	}
	if statuses[0].Version == "" {
		t.Error("expected a version for the available tool")
	}
	if statuses[1].Available || statuses[2].Available {
		t.Errorf("unavailable tools reported available: %+v", statuses[1:])
	}
}
