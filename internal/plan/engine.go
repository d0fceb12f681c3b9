package plan

import (
	"github.com/Taco-Comovilla/cattywampus/internal/config"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
)

// Build computes the mutation plan for one probed MKV file. It is a pure
// function of its inputs: no I/O, no failure mode, and the same settings and
// track set always produce the same plan. Track iteration follows container
// order only, so output order is deterministic.
func Build(settings config.Settings, ts media.TrackSet) Plan {
	p := Plan{ResetVideoLanguage: -1}

	buildScrub(settings, ts, &p)
	buildSubtitle(settings, ts, &p)
	buildAudio(settings, ts, &p)

	return p
}

// buildScrub emits the metadata-clearing operations: container title, first
// video track name and language, and optionally audio track names. Each
// operation is included only when the probed state shows something to clear.
func buildScrub(settings config.Settings, ts media.TrackSet, p *Plan) {
	if ts.Title != "" {
		p.ClearTitle = true
	}

	for _, t := range ts.Tracks {
		if t.Kind != media.TrackVideo {
			continue
		}
		if t.Name != "" {
			p.NameClears = append(p.NameClears, NameClear{TrackID: t.ID, Kind: t.Kind})
		}
		if t.Language != "" && t.Language != "und" {
			p.ResetVideoLanguage = t.ID
		}
		break
	}

	if !settings.ClearAudio {
		return
	}
	for _, t := range ts.Tracks {
		if t.Kind != media.TrackAudio {
			continue
		}
		if t.Name != "" {
			p.NameClears = append(p.NameClears, NameClear{TrackID: t.ID, Kind: t.Kind})
		}
		break
	}
}

// buildSubtitle applies the subtitle selection rules. The force-first rule
// wins over language matching and ignores language entirely; the language
// rule takes the first subtitle track in container order whose language
// matches. No match means no subtitle entries at all.
func buildSubtitle(settings config.Settings, ts media.TrackSet, p *Plan) {
	chosen := -1

	switch {
	case settings.ForceDefaultFirstSubtitle:
		for _, t := range ts.Tracks {
			if t.Kind == media.TrackSubtitle {
				chosen = t.ID
				break
			}
		}
	case settings.SetDefaultSubtitle && !settings.Language.IsZero():
		for _, t := range ts.Tracks {
			if t.Kind == media.TrackSubtitle && settings.Language.Matches(t.Language) {
				chosen = t.ID
				break
			}
		}
	}

	if chosen < 0 {
		return
	}

	for _, t := range ts.Tracks {
		if t.Kind != media.TrackSubtitle {
			continue
		}
		switch {
		case t.ID == chosen:
			entry := Entry{TrackID: t.ID, Kind: t.Kind}
			if !t.Default {
				entry.Default = boolPtr(true)
			}
			if !t.Enabled {
				entry.Enabled = boolPtr(true)
			}
			if entry.Default != nil || entry.Enabled != nil {
				p.Entries = append(p.Entries, entry)
			}
		case t.Default:
			p.Entries = append(p.Entries, Entry{
				TrackID: t.ID,
				Kind:    t.Kind,
				Default: boolPtr(false),
			})
		}
	}
}

// buildAudio applies the language-matched audio rule. It mirrors the
// subtitle rule's shape but only ever touches the default flag; enabling or
// disabling audio tracks is out of scope.
func buildAudio(settings config.Settings, ts media.TrackSet, p *Plan) {
	if !settings.SetDefaultAudio || settings.Language.IsZero() {
		return
	}

	chosen := -1
	for _, t := range ts.Tracks {
		if t.Kind == media.TrackAudio && settings.Language.Matches(t.Language) {
			chosen = t.ID
			break
		}
	}
	if chosen < 0 {
		return
	}

	for _, t := range ts.Tracks {
		if t.Kind != media.TrackAudio {
			continue
		}
		switch {
		case t.ID == chosen:
			if !t.Default {
				p.Entries = append(p.Entries, Entry{
					TrackID: t.ID,
					Kind:    t.Kind,
					Default: boolPtr(true),
				})
			}
		case t.Default:
			p.Entries = append(p.Entries, Entry{
				TrackID: t.ID,
				Kind:    t.Kind,
				Default: boolPtr(false),
			})
		}
	}
}
