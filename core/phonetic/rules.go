package phonetic

import "strings"

// RuleKind selects how a Rule's Match is located in the working buffer.
type RuleKind int

const (
	// Anywhere replaces every non-overlapping occurrence of Match, left to right.
	Anywhere RuleKind = iota
	// Prefix replaces Match only when the buffer starts with it.
	Prefix
	// Suffix replaces Match only when the buffer ends with it.
	Suffix
	// AnywhereClass replaces every byte that appears in Match.
	AnywhereClass
	// PrefixClass replaces the first byte when it appears in Match.
	PrefixClass
	// Collapse replaces each run of the single byte Match with Replace.
	Collapse
)

// String returns the pattern notation used in the published tables.
func (k RuleKind) String() string {
	switch k {
	case Anywhere:
		return "anywhere"
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case AnywhereClass:
		return "class"
	case PrefixClass:
		return "prefix-class"
	case Collapse:
		return "collapse"
	default:
		return "unknown"
	}
}

// Rule is one entry of an ordered substitution table.
type Rule struct {
	Kind    RuleKind
	Match   string
	Replace string
}

// Pattern renders the rule in the regular-expression notation of the
// published Caverphone tables, e.g. "^gn", "mb$", "[aeiou]", "s+".
func (r Rule) Pattern() string {
	switch r.Kind {
	case Prefix:
		return "^" + r.Match
	case Suffix:
		return r.Match + "$"
	case AnywhereClass:
		return "[" + r.Match + "]"
	case PrefixClass:
		return "^[" + r.Match + "]"
	case Collapse:
		return r.Match + "+"
	default:
		return r.Match
	}
}

// Apply rewrites s once according to the rule. Text produced by the
// replacement is never re-scanned by the same rule.
func (r Rule) Apply(s string) string {
	switch r.Kind {
	case Anywhere:
		return strings.ReplaceAll(s, r.Match, r.Replace)
	case Prefix:
		if strings.HasPrefix(s, r.Match) {
			return r.Replace + s[len(r.Match):]
		}
		return s
	case Suffix:
		if strings.HasSuffix(s, r.Match) {
			return s[:len(s)-len(r.Match)] + r.Replace
		}
		return s
	case AnywhereClass:
		if !strings.ContainsAny(s, r.Match) {
			return s
		}
		var b strings.Builder
		b.Grow(len(s))
		for i := 0; i < len(s); i++ {
			if strings.IndexByte(r.Match, s[i]) >= 0 {
				b.WriteString(r.Replace)
			} else {
				b.WriteByte(s[i])
			}
		}
		return b.String()
	case PrefixClass:
		if s != "" && strings.IndexByte(r.Match, s[0]) >= 0 {
			return r.Replace + s[1:]
		}
		return s
	case Collapse:
		return collapseRuns(s, r.Match[0], r.Replace)
	default:
		return s
	}
}

// collapseRuns replaces each maximal run of c with repl.
func collapseRuns(s string, c byte, repl string) string {
	if strings.IndexByte(s, c) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != c {
			b.WriteByte(s[i])
			i++
			continue
		}
		for i < len(s) && s[i] == c {
			i++
		}
		b.WriteString(repl)
	}
	return b.String()
}

// Caverphone 2.0 placeholder markers. '2' marks a silenced letter and '3' a
// non-initial vowel; both are stripped before the code is padded.
const (
	silentMarker = "2"
	vowelMarker  = "3"
)

// openingRules rewrite spelling irregularities anchored to the start or end
// of the word before the general table runs.
var openingRules = []Rule{
	{Prefix, "cough", "cou2f"},
	{Prefix, "rough", "rou2f"},
	{Prefix, "tough", "tou2f"},
	{Prefix, "enough", "enou2f"},
	{Prefix, "trough", "trou2f"},
	{Prefix, "gn", "2n"},
	{Suffix, "mb", "m2"},
}

// consonantRules collapse digraphs and canonicalize interchangeable consonants.
var consonantRules = []Rule{
	{Anywhere, "cq", "2q"},
	{Anywhere, "ci", "si"},
	{Anywhere, "ce", "se"},
	{Anywhere, "cy", "sy"},
	{Anywhere, "tch", "2ch"},
	{Anywhere, "c", "k"},
	{Anywhere, "q", "k"},
	{Anywhere, "x", "k"},
	{Anywhere, "v", "f"},
	{Anywhere, "dg", "2g"},
	{Anywhere, "tio", "sio"},
	{Anywhere, "tia", "sia"},
	{Anywhere, "d", "t"},
	{Anywhere, "ph", "fh"},
	{Anywhere, "b", "p"},
	{Anywhere, "sh", "s2"},
	{Anywhere, "z", "s"},
}

// vowelRules keep an initial vowel as A and mark every other vowel.
var vowelRules = []Rule{
	{PrefixClass, "aeiou", "A"},
	{AnywhereClass, "aeiou", vowelMarker},
	{Anywhere, "j", "y"},
	{Prefix, "y3", "Y3"},
	{Prefix, "y", "A"},
	{Anywhere, "y", vowelMarker},
	{Anywhere, "3gh3", "3kh3"},
	{Anywhere, "gh", "22"},
	{Anywhere, "g", "k"},
}

// runRules collapse doubled consonants into their upper-case code letter.
var runRules = []Rule{
	{Collapse, "s", "S"},
	{Collapse, "t", "T"},
	{Collapse, "p", "P"},
	{Collapse, "k", "K"},
	{Collapse, "f", "F"},
	{Collapse, "m", "M"},
	{Collapse, "n", "N"},
}

// liquidRules keep w, h, r and l only before a vowel.
var liquidRules = []Rule{
	{Anywhere, "w3", "W3"},
	{Anywhere, "wh3", "Wh3"},
	{Suffix, "w", vowelMarker},
	{Anywhere, "w", silentMarker},
	{Prefix, "h", "A"},
	{Anywhere, "h", silentMarker},
	{Anywhere, "r3", "R3"},
	{Suffix, "r", vowelMarker},
	{Anywhere, "r", silentMarker},
	{Anywhere, "l3", "L3"},
	{Suffix, "l", vowelMarker},
	{Anywhere, "l", silentMarker},
}

// cleanupRules drop the placeholder markers; a trailing vowel survives as A.
var cleanupRules = []Rule{
	{Anywhere, silentMarker, ""},
	{Suffix, vowelMarker, "A"},
	{Anywhere, vowelMarker, ""},
}

// caverphone2Table is the full ordered table, built once at init and never
// mutated afterwards.
var caverphone2Table = concatRules(
	openingRules,
	consonantRules,
	vowelRules,
	runRules,
	liquidRules,
	cleanupRules,
)

func concatRules(groups ...[]Rule) []Rule {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]Rule, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Rules returns a copy of the Caverphone 2.0 substitution table in the order
// it is applied.
func Rules() []Rule {
	out := make([]Rule, len(caverphone2Table))
	copy(out, caverphone2Table)
	return out
}
