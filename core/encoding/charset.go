package encoding

import (
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
)

// Standard charset names. Every platform is required to support these.
const (
	UTF8      = "UTF-8"
	UTF16     = "UTF-16"
	UTF16BE   = "UTF-16BE"
	UTF16LE   = "UTF-16LE"
	ISO8859_1 = "ISO-8859-1"
	USASCII   = "US-ASCII"
)

// standard resolves the required charsets without consulting the IANA index.
// UTF-16 writes a big-endian byte order mark and honours one when decoding.
var standard = map[string]xencoding.Encoding{
	UTF8:      unicode.UTF8,
	UTF16:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	UTF16BE:   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	UTF16LE:   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	ISO8859_1: charmap.ISO8859_1,
}

// lookup resolves a charset name (case-insensitive, IANA names and aliases).
// An unknown or unsupported name yields an *errors.UnsupportedError.
func lookup(charset string) (xencoding.Encoding, error) {
	name := strings.ToUpper(strings.TrimSpace(charset))
	if enc, ok := standard[name]; ok {
		return enc, nil
	}
	if name == USASCII || name == "ASCII" {
		return asciiEncoding{}, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, errors.NewUnsupported("charset", charset)
	}
	if enc == nil {
		return nil, errors.NewUnsupported("charset", charset)
	}
	return enc, nil
}

// GetBytes encodes s in the named charset. A nil string yields nil bytes.
// Characters the charset cannot represent are replaced; single-byte
// charsets use '?'.
func GetBytes(s *string, charset string) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	switch e := enc.(type) {
	case asciiEncoding:
		return asciiBytes(*s), nil
	case *charmap.Charmap:
		return charmapBytes(e, *s), nil
	}
	b, err := xencoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(*s))
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", charset)
	}
	return b, nil
}

// NewString decodes b using the named charset. Nil bytes yield a nil string.
func NewString(b []byte, charset string) (*string, error) {
	if b == nil {
		return nil, nil
	}
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	if _, ok := enc.(asciiEncoding); ok {
		s := asciiString(b)
		return &s, nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", charset)
	}
	s := string(out)
	return &s, nil
}

// MustGetBytes is GetBytes for charsets the caller knows exist. An unknown
// charset is a programming error and panics.
func MustGetBytes(s *string, charset string) []byte {
	b, err := GetBytes(s, charset)
	if err != nil {
		panic(err)
	}
	return b
}

// MustNewString is NewString for charsets the caller knows exist.
func MustNewString(b []byte, charset string) *string {
	s, err := NewString(b, charset)
	if err != nil {
		panic(err)
	}
	return s
}

func GetBytesUTF8(s *string) []byte      { return MustGetBytes(s, UTF8) }
func GetBytesUTF16(s *string) []byte     { return MustGetBytes(s, UTF16) }
func GetBytesUTF16BE(s *string) []byte   { return MustGetBytes(s, UTF16BE) }
func GetBytesUTF16LE(s *string) []byte   { return MustGetBytes(s, UTF16LE) }
func GetBytesISO8859_1(s *string) []byte { return MustGetBytes(s, ISO8859_1) }
func GetBytesUSASCII(s *string) []byte   { return MustGetBytes(s, USASCII) }

func NewStringUTF8(b []byte) *string      { return MustNewString(b, UTF8) }
func NewStringUTF16(b []byte) *string     { return MustNewString(b, UTF16) }
func NewStringUTF16BE(b []byte) *string   { return MustNewString(b, UTF16BE) }
func NewStringUTF16LE(b []byte) *string   { return MustNewString(b, UTF16LE) }
func NewStringISO8859_1(b []byte) *string { return MustNewString(b, ISO8859_1) }
func NewStringUSASCII(b []byte) *string   { return MustNewString(b, USASCII) }

// Equals compares two optional strings. Two nils are equal; nil never
// equals a present string.
func Equals(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// asciiEncoding marks US-ASCII, which x/text does not model as a charmap.
// It is only ever type-checked, never asked for a transformer.
type asciiEncoding struct{ xencoding.Encoding }

func asciiBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// charmapBytes encodes s in a single-byte charmap, writing '?' for runes
// the charmap cannot represent.
func charmapBytes(cm *charmap.Charmap, s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := cm.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

func asciiString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		} else {
			sb.WriteRune('�')
		}
	}
	return sb.String()
}
