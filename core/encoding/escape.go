// Package encoding provides charset conversion between strings and bytes
// and the escaping helpers used when writing code reports.
//
// Conversions propagate absence: a nil string encodes to nil bytes and nil
// bytes decode to a nil string.
package encoding

import "strings"

var xmlTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var xmlAttrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
)

// EscapeXMLText escapes the basic XML entities for element content.
func EscapeXMLText(s string) string {
	return xmlTextEscaper.Replace(s)
}

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
func EscapeXMLAttr(s string) string {
	return xmlAttrEscaper.Replace(s)
}
