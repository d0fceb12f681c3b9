package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Tag is a validated language selector. The zero value selects nothing:
// Matches always returns false and IsZero reports true.
type Tag struct {
	raw  string
	base language.Base
	ok   bool
}

// Parse validates a BCP 47 language tag and returns a Tag keyed on its
// primary subtag. Region and variant subtags are accepted but ignored for
// matching ("en-US" selects the same tracks as "en").
func Parse(value string) (Tag, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Tag{}, nil
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return Tag{}, fmt.Errorf("language tag %q: %w", trimmed, err)
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return Tag{}, fmt.Errorf("language tag %q: no primary subtag", trimmed)
	}
	return Tag{raw: trimmed, base: base, ok: true}, nil
}

// IsZero reports whether the tag is empty. An empty tag disables all
// language-dependent track selection.
func (t Tag) IsZero() bool {
	return !t.ok
}

// String returns the tag as supplied by the user, or "" for the zero tag.
func (t Tag) String() string {
	return t.raw
}

// Primary returns the ISO 639-1 primary subtag (e.g. "en").
func (t Tag) Primary() string {
	if !t.ok {
		return ""
	}
	return t.base.String()
}

// ISO3 returns the ISO 639-3 code for the primary subtag (e.g. "eng").
// mkvmerge reports track languages with 3-letter codes.
func (t Tag) ISO3() string {
	if !t.ok {
		return ""
	}
	return t.base.ISO3()
}

// bibliographic maps the ISO 639-2/B codes that differ from their
// terminological form. Matroska stores the bibliographic variant, so
// mkvmerge reports "fre" and "ger" rather than "fra" and "deu".
var bibliographic = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya",
	"chi": "zho", "cze": "ces", "dut": "nld", "fre": "fra",
	"geo": "kat", "ger": "deu", "gre": "ell", "ice": "isl",
	"mac": "mkd", "mao": "mri", "may": "msa", "per": "fas",
	"rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

// Matches reports whether a track's reported language selects this tag.
// Track languages arrive as ISO 639-2 codes ("eng", "fre") or full BCP 47
// tags ("en-US"); a track matches when its primary subtag equals ours.
// Unparseable, empty, and undetermined track languages never match.
func (t Tag) Matches(trackLanguage string) bool {
	if !t.ok {
		return false
	}
	trimmed := strings.TrimSpace(trackLanguage)
	if trimmed == "" {
		return false
	}
	if iso3, ok := bibliographic[strings.ToLower(trimmed)]; ok {
		trimmed = iso3
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return false
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return false
	}
	return base == t.base
}
