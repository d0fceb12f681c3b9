package media

// TrackKind classifies a container track. Unrecognized kinds map to
// TrackOther instead of failing the probe.
type TrackKind int

const (
	TrackOther TrackKind = iota
	TrackVideo
	TrackAudio
	TrackSubtitle
)

func (k TrackKind) String() string {
	switch k {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	case TrackSubtitle:
		return "subtitle"
	default:
		return "other"
	}
}

// Track is one stream in a media container as reported by the inspector.
type Track struct {
	// ID is the container-local track identifier, stable within a file.
	ID int
	// Kind classifies the track.
	Kind TrackKind
	// Language is the reported language code ("eng", "en-US"). Empty or
	// "und" when the container does not declare one.
	Language string
	// Name is the human-readable track name, if any.
	Name string
	// Default and Enabled mirror the container's current flag state.
	Default bool
	Enabled bool
	// Codec identifies the track codec (e.g. "S_TEXT/UTF8").
	Codec string
}

// TrackSet is the ordered track list probed from one file. Order is the
// container's own order and is semantically significant: it defines "first"
// for every selection tie-break. A TrackSet is built fresh per file and
// never mutated.
type TrackSet struct {
	// Title is the container-level segment title, if any.
	Title string
	// Tracks in container order.
	Tracks []Track
}

// HasAudio reports whether any audio track is present.
func (ts TrackSet) HasAudio() bool {
	for _, t := range ts.Tracks {
		if t.Kind == TrackAudio {
			return true
		}
	}
	return false
}

// HasVideo reports whether any video track is present.
func (ts TrackSet) HasVideo() bool {
	for _, t := range ts.Tracks {
		if t.Kind == TrackVideo {
			return true
		}
	}
	return false
}
