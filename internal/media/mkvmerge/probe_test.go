package mkvmerge

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
)

const identifyOutput = `{
  "container": {
    "properties": {
      "title": "Some Movie (2019)"
    }
  },
  "tracks": [
    {
      "id": 0,
      "type": "video",
      "codec": "HEVC/H.265/MPEG-H",
      "properties": {
        "codec_id": "V_MPEGH/ISO/HEVC",
        "language": "eng",
        "track_name": "Encoded by somebody",
        "default_track": true,
        "enabled_track": true,
        "number": 1
      }
    },
    {
      "id": 1,
      "type": "audio",
      "codec": "AC-3",
      "properties": {
        "codec_id": "A_AC3",
        "language": "eng",
        "language_ietf": "en-US",
        "default_track": true,
        "enabled_track": true,
        "number": 2
      }
    },
    {
      "id": 2,
      "type": "subtitles",
      "codec": "SubRip/SRT",
      "properties": {
        "codec_id": "S_TEXT/UTF8",
        "language": "fre",
        "default_track": false,
        "number": 3
      }
    },
    {
      "id": 3,
      "type": "buttons",
      "properties": {}
    }
  ]
}`

func fakeRunner(t *testing.T, wantArgs []string, output []byte, err error) runner {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if len(args) != len(wantArgs) {
			t.Fatalf("unexpected args: %v", args)
		}
		for i := range args {
			if args[i] != wantArgs[i] {
				t.Fatalf("arg %d = %q, want %q", i, args[i], wantArgs[i])
			}
		}
		return output, err
	}
}

func TestProbeParsesIdentification(t *testing.T) {
	p := NewProber("/usr/bin/mkvmerge", logging.NewNop())
	p.WithRunner(fakeRunner(t, []string{"-J", "/films/movie.mkv"}, []byte(identifyOutput), nil))

	ts, err := p.Probe(context.Background(), "/films/movie.mkv")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if ts.Title != "Some Movie (2019)" {
		t.Errorf("title = %q", ts.Title)
	}
	if len(ts.Tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(ts.Tracks))
	}

	video := ts.Tracks[0]
	if video.Kind != media.TrackVideo || !video.Default || !video.Enabled {
		t.Errorf("unexpected video track: %+v", video)
	}
	if video.Name != "Encoded by somebody" || video.Language != "eng" {
		t.Errorf("unexpected video metadata: %+v", video)
	}

	// language_ietf wins over the legacy field.
	if ts.Tracks[1].Language != "en-US" {
		t.Errorf("audio language = %q, want en-US", ts.Tracks[1].Language)
	}

	sub := ts.Tracks[2]
	if sub.Kind != media.TrackSubtitle || sub.Default {
		t.Errorf("unexpected subtitle track: %+v", sub)
	}
	// enabled_track is absent for this track; Matroska's default is on.
	if !sub.Enabled {
		t.Error("missing enabled_track must default to enabled")
	}

	if ts.Tracks[3].Kind != media.TrackOther {
		t.Errorf("unknown type must map to TrackOther, got %v", ts.Tracks[3].Kind)
	}
}

func TestProbeMalformedOutput(t *testing.T) {
	p := NewProber("/usr/bin/mkvmerge", logging.NewNop())
	p.WithRunner(fakeRunner(t, []string{"-J", "x.mkv"}, []byte("not json"), nil))

	_, err := p.Probe(context.Background(), "x.mkv")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestProbeMissingBinary(t *testing.T) {
	p := NewProber("", logging.NewNop())
	if _, err := p.Probe(context.Background(), "x.mkv"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}

	p = NewProber("mkvmerge", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	})
	if _, err := p.Probe(context.Background(), "x.mkv"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound for exec error, got %v", err)
	}
}

func TestProbeToolFailure(t *testing.T) {
	exitErr := exitError(t)
	p := NewProber("mkvmerge", logging.NewNop())
	p.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("Error: corrupt header"), exitErr
	})

	_, err := p.Probe(context.Background(), "x.mkv")
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}

// exitError produces a genuine *exec.ExitError for classification tests.
func exitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 2").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Skipf("cannot produce exit error on this platform: %v", err)
	}
	return err
}
