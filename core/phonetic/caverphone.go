package phonetic

import "strings"

// CodeLength is the fixed width of every Caverphone 2.0 code.
const CodeLength = 10

// padding fills codes shorter than CodeLength.
const padding = "1111111111"

// StringEncoder maps a word to its phonetic key.
type StringEncoder interface {
	Encode(word string) string
}

// Caverphone2 is the Caverphone 2.0 encoder. The zero value is ready to use.
type Caverphone2 struct{}

// NewCaverphone2 returns a Caverphone 2.0 encoder.
func NewCaverphone2() *Caverphone2 {
	return &Caverphone2{}
}

// Encode returns the ten character code for word. Characters outside the
// ASCII alphabet are discarded, so any input yields a code; the empty
// string encodes to "1111111111".
func (Caverphone2) Encode(word string) string {
	buf := Normalize(word)
	buf = strings.TrimSuffix(buf, "e")
	for _, r := range caverphone2Table {
		buf = r.Apply(buf)
	}
	return pad(retainCodeLetters(buf))
}

// EncodeNullable is Encode for an optional word: nil yields nil.
func (c Caverphone2) EncodeNullable(word *string) *string {
	if word == nil {
		return nil
	}
	code := c.Encode(*word)
	return &code
}

// IsEncodingEqual reports whether a and b share a code.
func (c Caverphone2) IsEncodingEqual(a, b string) bool {
	return c.Encode(a) == c.Encode(b)
}

// IsEncodingEqualNullable is IsEncodingEqual for optional words. An absent
// word has no pronunciation, so the result is false whenever either side is
// nil, including when both are.
func (c Caverphone2) IsEncodingEqualNullable(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return c.IsEncodingEqual(*a, *b)
}

// Normalize keeps the ASCII letters of word, lower-cased. It is the first
// stage of Encode.
func Normalize(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		}
	}
	return b.String()
}

// retainCodeLetters drops anything that is not an upper-case code letter.
func retainCodeLetters(s string) string {
	keep := true
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			keep = false
			break
		}
	}
	if keep {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func pad(s string) string {
	if len(s) >= CodeLength {
		return s[:CodeLength]
	}
	return s + padding[:CodeLength-len(s)]
}
