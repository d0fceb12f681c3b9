package apply

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"reflect"
	"testing"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
	"github.com/Taco-Comovilla/cattywampus/internal/plan"
)

func boolPtr(v bool) *bool { return &v }

func TestMKVArgsFullPlan(t *testing.T) {
	p := plan.Plan{
		ClearTitle: true,
		NameClears: []plan.NameClear{
			{TrackID: 0, Kind: media.TrackVideo},
			{TrackID: 1, Kind: media.TrackAudio},
		},
		ResetVideoLanguage: 0,
		Entries: []plan.Entry{
			{TrackID: 3, Kind: media.TrackSubtitle, Default: boolPtr(true), Enabled: boolPtr(true)},
			{TrackID: 4, Kind: media.TrackSubtitle, Default: boolPtr(false)},
		},
	}

	got := MKVArgs("/films/movie.mkv", p)
	want := []string{
		"-q", "/films/movie.mkv",
		"-d", "title",
		"-e", "track:1", "-d", "name",
		"-e", "track:2", "-d", "name",
		"-e", "track:1", "-s", "language=und",
		"-e", "track:4", "-s", "flag-enabled=1",
		"-e", "track:4", "-s", "flag-default=1",
		"-e", "track:5", "-s", "flag-default=0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MKVArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestMKVArgsSelectorsAreOneBased(t *testing.T) {
	p := plan.Plan{
		ResetVideoLanguage: -1,
		Entries: []plan.Entry{
			{TrackID: 0, Kind: media.TrackSubtitle, Default: boolPtr(true)},
		},
	}
	got := MKVArgs("f.mkv", p)
	want := []string{"-q", "f.mkv", "-e", "track:1", "-s", "flag-default=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MKVArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestMP4Args(t *testing.T) {
	got := MP4Args("/films/clip.mp4")
	want := []string{"/films/clip.mp4", "--title", "", "--description", "", "--preventOptimizing", "--overWrite"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MP4Args mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestApplyMKVEmptyPlanSkipsTool(t *testing.T) {
	a := New("mkvpropedit", "AtomicParsley", logging.NewNop())
	a.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("runner must not be invoked for an empty plan")
		return nil, nil
	})

	if err := a.ApplyMKV(context.Background(), "f.mkv", plan.Plan{ResetVideoLanguage: -1}); err != nil {
		t.Fatalf("ApplyMKV failed: %v", err)
	}
}

func TestApplyMKVSingleInvocation(t *testing.T) {
	calls := 0
	a := New("/usr/bin/mkvpropedit", "", logging.NewNop())
	a.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		if name != "/usr/bin/mkvpropedit" {
			t.Fatalf("unexpected binary: %q", name)
		}
		return nil, nil
	})

	p := plan.Plan{ClearTitle: true, ResetVideoLanguage: 0, Entries: []plan.Entry{
		{TrackID: 2, Kind: media.TrackSubtitle, Default: boolPtr(true)},
		{TrackID: 3, Kind: media.TrackSubtitle, Default: boolPtr(false)},
	}}
	if err := a.ApplyMKV(context.Background(), "f.mkv", p); err != nil {
		t.Fatalf("ApplyMKV failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one tool invocation, got %d", calls)
	}
}

func TestApplyMKVMissingBinary(t *testing.T) {
	a := New("", "", logging.NewNop())
	err := a.ApplyMKV(context.Background(), "f.mkv", plan.Plan{ClearTitle: true, ResetVideoLanguage: -1})
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestApplyMP4MissingBinary(t *testing.T) {
	a := New("", "", logging.NewNop())
	if err := a.ApplyMP4(context.Background(), "f.mp4"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestClassifyPermissionDenied(t *testing.T) {
	if err := classifyRunError(fs.ErrPermission, nil); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	runErr := exec.Command("sh", "-c", "exit 2").Run()
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		t.Skipf("cannot produce exit error on this platform: %v", runErr)
	}
	err := classifyRunError(runErr, []byte("Error: Permission denied when opening the file"))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied from tool output, got %v", err)
	}
}

func TestClassifyToolFailure(t *testing.T) {
	runErr := exec.Command("sh", "-c", "exit 2").Run()
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		t.Skipf("cannot produce exit error on this platform: %v", runErr)
	}
	err := classifyRunError(runErr, []byte("Error: something else broke"))
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}

	if err := classifyRunError(&exec.Error{Name: "mkvpropedit", Err: exec.ErrNotFound}, nil); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}
