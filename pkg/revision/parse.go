// ABOUTME: Revision specifier parser
// ABOUTME: Ordered list of matchers, the first one that accepts the text wins

package revision

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// matcher tries to read text as one variant.
type matcher func(text string) (Revision, bool)

// matchers is the parse order. Range must come first so each side of a
// comma is parsed on its own, and Label last since it accepts any @text.
var matchers []matcher

func init() {
	matchers = []matcher{
		matchRange,
		matchDate,
		matchNumber,
		matchNow,
		matchNone,
		matchChangelist,
		matchHave,
		matchHead,
		matchLabel,
	}
}

// fallbackDateLayouts are tried after the server formats, for
// convenience when a person types a date.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	time.RFC1123,
}

var numberPattern = regexp.MustCompile(`#(\d+)`)

// Parse reads a revision specifier. Blank text, or text no variant
// accepts, reports false; an absent specifier is not an error.
func Parse(text string) (Revision, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Revision{}, false
	}
	for _, match := range matchers {
		if r, ok := match(text); ok {
			return r, true
		}
	}
	return Revision{}, false
}

// MustParse is like Parse but panics when text names no revision.
func MustParse(text string) Revision {
	r, ok := Parse(text)
	if !ok {
		panic("revision: cannot parse " + strconv.Quote(text))
	}
	return r
}

// matchRange splits at the first comma; both sides must parse.
func matchRange(text string) (Revision, bool) {
	i := strings.IndexByte(text, ',')
	if i <= 0 || i == len(text)-1 {
		return Revision{}, false
	}
	start, ok := Parse(text[:i])
	if !ok {
		return Revision{}, false
	}
	end, ok := Parse(text[i+1:])
	if !ok {
		return Revision{}, false
	}
	return Range(&start, &end), true
}

func matchDate(text string) (Revision, bool) {
	rest, ok := strings.CutPrefix(text, "@")
	if !ok || rest == "" {
		return Revision{}, false
	}
	for _, layout := range []string{DateLayout, "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, rest, time.Local); err == nil {
			return Date(t), true
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, rest, time.Local); err == nil {
			return Date(t), true
		}
	}
	return Revision{}, false
}

// matchNumber takes the first #digits anywhere in text. Without one, the
// whole text may still be a bare number ("42" is #42).
func matchNumber(text string) (Revision, bool) {
	value := text
	if m := numberPattern.FindStringSubmatch(text); m != nil {
		value = m[1]
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return Revision{}, false
	}
	return Number(int(n)), true
}

func matchNow(text string) (Revision, bool) {
	if strings.EqualFold(text, "@now") {
		return Now(), true
	}
	return Revision{}, false
}

func matchNone(text string) (Revision, bool) {
	if strings.EqualFold(text, "#none") || text == "#0" {
		return None(), true
	}
	return Revision{}, false
}

func matchChangelist(text string) (Revision, bool) {
	digits, ok := strings.CutPrefix(text, "@")
	if !ok || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return Revision{}, false
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return Revision{}, false
	}
	return Changelist(int(n)), true
}

func matchHave(text string) (Revision, bool) {
	if strings.EqualFold(text, "#have") {
		return Have(), true
	}
	return Revision{}, false
}

func matchHead(text string) (Revision, bool) {
	if strings.EqualFold(text, "#head") {
		return Head(), true
	}
	return Revision{}, false
}

func matchLabel(text string) (Revision, bool) {
	name, ok := strings.CutPrefix(text, "@")
	if !ok || name == "" {
		return Revision{}, false
	}
	return Label(name), true
}
