package plan

import "github.com/Taco-Comovilla/cattywampus/internal/media"

// Entry records the desired flag state for one track. Only fields that
// differ from the track's current state are set; nil means "leave alone".
type Entry struct {
	TrackID int
	Kind    media.TrackKind
	Default *bool
	Enabled *bool
}

// NameClear requests deletion of a track's name property.
type NameClear struct {
	TrackID int
	Kind    media.TrackKind
}

// Plan is the complete mutation set for one file. Every operation in it
// changes observable container state; applying a plan and rebuilding it from
// the result yields an empty plan.
type Plan struct {
	// ClearTitle deletes the container-level segment title.
	ClearTitle bool
	// NameClears deletes track name properties (first video track always,
	// first audio track when audio clearing is enabled).
	NameClears []NameClear
	// ResetVideoLanguage sets the named video track's language to "und".
	// Negative when no reset is needed.
	ResetVideoLanguage int
	// Entries are default/enabled flag edits in container order.
	Entries []Entry
}

// IsEmpty reports whether applying the plan would be a no-op.
func (p Plan) IsEmpty() bool {
	return !p.ClearTitle &&
		len(p.NameClears) == 0 &&
		p.ResetVideoLanguage < 0 &&
		len(p.Entries) == 0
}

// FlagEdits counts individual flag assignments across all entries.
func (p Plan) FlagEdits() int {
	count := 0
	for _, e := range p.Entries {
		if e.Default != nil {
			count++
		}
		if e.Enabled != nil {
			count++
		}
	}
	return count
}

// Operations counts every discrete mutation in the plan.
func (p Plan) Operations() int {
	count := p.FlagEdits() + len(p.NameClears)
	if p.ClearTitle {
		count++
	}
	if p.ResetVideoLanguage >= 0 {
		count++
	}
	return count
}

func boolPtr(v bool) *bool { return &v }
