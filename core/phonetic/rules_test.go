package phonetic

import "testing"

func TestRule_Apply(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		input string
		want  string
	}{
		{"prefix match", Rule{Prefix, "gn", "2n"}, "gnome", "2nome"},
		{"prefix only at start", Rule{Prefix, "gn", "2n"}, "signal", "signal"},
		{"suffix match", Rule{Suffix, "mb", "m2"}, "lamb", "lam2"},
		{"suffix only at end", Rule{Suffix, "mb", "m2"}, "lambda", "lambda"},
		{"suffix replaces once", Rule{Suffix, "mb", "m2"}, "mbmb", "mbm2"},
		{"anywhere all occurrences", Rule{Anywhere, "d", "t"}, "tedder", "tetter"},
		{"anywhere non-overlapping", Rule{Anywhere, "gh", "22"}, "ghgh", "2222"},
		{"anywhere no rescan", Rule{Anywhere, "3gh3", "3kh3"}, "3gh3gh3", "3kh3gh3"},
		{"class", Rule{AnywhereClass, "aeiou", "3"}, "stevenson", "st3v3ns3n"},
		{"prefix class", Rule{PrefixClass, "aeiou", "A"}, "able", "Able"},
		{"prefix class miss", Rule{PrefixClass, "aeiou", "A"}, "peter", "peter"},
		{"prefix class empty", Rule{PrefixClass, "aeiou", "A"}, "", ""},
		{"collapse runs", Rule{Collapse, "t", "T"}, "tttet", "TeT"},
		{"collapse absent", Rule{Collapse, "t", "T"}, "peer", "peer"},
		{"empty buffer", Rule{Anywhere, "c", "k"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Apply(tt.input); got != tt.want {
				t.Errorf("%s.Apply(%q) = %q, want %q", tt.rule.Pattern(), tt.input, got, tt.want)
			}
		})
	}
}

func TestRule_Pattern(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{Rule{Prefix, "cough", "cou2f"}, "^cough"},
		{Rule{Suffix, "mb", "m2"}, "mb$"},
		{Rule{Anywhere, "tch", "2ch"}, "tch"},
		{Rule{AnywhereClass, "aeiou", "3"}, "[aeiou]"},
		{Rule{PrefixClass, "aeiou", "A"}, "^[aeiou]"},
		{Rule{Collapse, "s", "S"}, "s+"},
	}
	for _, tt := range tests {
		if got := tt.rule.Pattern(); got != tt.want {
			t.Errorf("Pattern() = %q, want %q", got, tt.want)
		}
	}
}

func TestRuleKind_String(t *testing.T) {
	if got := Collapse.String(); got != "collapse" {
		t.Errorf("Collapse.String() = %q", got)
	}
	if got := RuleKind(99).String(); got != "unknown" {
		t.Errorf("RuleKind(99).String() = %q", got)
	}
}

func TestRules_TableOrder(t *testing.T) {
	rules := Rules()
	if len(rules) != 55 {
		t.Fatalf("len(Rules()) = %d, want 55", len(rules))
	}

	index := func(pattern string) int {
		for i, r := range rules {
			if r.Pattern() == pattern {
				return i
			}
		}
		t.Fatalf("pattern %q missing from table", pattern)
		return -1
	}

	// Each pair must run in this order for the published vectors to hold.
	ordered := [][2]string{
		{"^cough", "c"},
		{"^gn", "g"},
		{"mb$", "b"},
		{"tch", "c"},
		{"ci", "c"},
		{"tio", "d"},
		{"^[aeiou]", "[aeiou]"},
		{"j", "^y3"},
		{"^y3", "y"},
		{"3gh3", "gh"},
		{"gh", "g"},
		{"w3", "w"},
		{"w$", "w"},
		{"^h", "h"},
		{"r3", "r"},
		{"l3", "l"},
		{"2", "3$"},
		{"3$", "3"},
	}
	for _, p := range ordered {
		if a, b := index(p[0]), index(p[1]); a >= b {
			t.Errorf("rule %q (#%d) must precede %q (#%d)", p[0], a, p[1], b)
		}
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	rules := Rules()
	rules[0].Replace = "mutated"
	if Rules()[0].Replace == "mutated" {
		t.Error("Rules() exposed the shared table")
	}
}
