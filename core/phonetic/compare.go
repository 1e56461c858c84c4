package phonetic

import (
	"sort"
	"strings"
)

// Compare orders a and b by their codes under enc, returning -1, 0 or +1.
// Words with equal codes compare as 0.
func Compare(enc StringEncoder, a, b string) int {
	return strings.Compare(enc.Encode(a), enc.Encode(b))
}

// SortByCode sorts words in place by code, keeping the input order of
// words that share a code.
func SortByCode(enc StringEncoder, words []string) {
	codes := make(map[string]string, len(words))
	for _, w := range words {
		if _, ok := codes[w]; !ok {
			codes[w] = enc.Encode(w)
		}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return codes[words[i]] < codes[words[j]]
	})
}

// Keys buckets words by code. Each bucket keeps the input order.
func Keys(enc StringEncoder, words []string) map[string][]string {
	out := make(map[string][]string)
	for _, w := range words {
		code := enc.Encode(w)
		out[code] = append(out[code], w)
	}
	return out
}
