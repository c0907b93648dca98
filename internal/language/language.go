package language

import (
	"strings"

	"github.com/samber/lo"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undefined is the code ffprobe and this tool use for streams without a language tag.
const Undefined = "und"

// AllowList is the set of language codes an operator wants retained.
type AllowList struct {
	codes []string
	set   map[string]struct{}
}

// NewAllowList builds an allow-list from individual codes. Surrounding
// whitespace and blank entries are dropped; case is kept as given.
func NewAllowList(codes ...string) AllowList {
	cleaned := lo.Uniq(lo.Filter(lo.Map(codes, func(code string, _ int) string {
		return strings.TrimSpace(code)
	}), func(code string, _ int) bool {
		return code != ""
	}))
	set := make(map[string]struct{}, len(cleaned))
	for _, code := range cleaned {
		set[code] = struct{}{}
	}
	return AllowList{codes: cleaned, set: set}
}

// ParseAllowList splits a comma separated list such as "jpn,eng".
func ParseAllowList(value string) AllowList {
	return NewAllowList(strings.Split(value, ",")...)
}

// Contains reports literal membership.
func (a AllowList) Contains(code string) bool {
	_, ok := a.set[code]
	return ok
}

// Len returns the number of distinct entries.
func (a AllowList) Len() int {
	return len(a.codes)
}

// String joins the entries with commas in the order they were supplied.
func (a AllowList) String() string {
	return strings.Join(a.codes, ",")
}

// Unrecognized returns entries that do not parse as ISO 639 language codes.
// They still match literally; callers log them so typos are visible.
func (a AllowList) Unrecognized() []string {
	return lo.Filter(a.codes, func(code string, _ int) bool {
		_, err := xlanguage.Parse(code)
		return err != nil
	})
}

// DisplayName returns an English name for a language code, "Unknown" for
// undefined or empty codes, or the uppercased code when x/text has no name.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || code == Undefined {
		return "Unknown"
	}
	tag, err := xlanguage.Parse(code)
	if err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// Label renders "code (Name)" for tables and audit output.
func Label(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		code = Undefined
	}
	return code + " (" + DisplayName(code) + ")"
}
