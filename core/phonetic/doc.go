// Package phonetic derives sound-alike keys for English words and names.
//
// The encoder implements Caverphone 2.0, a rule-driven transform that maps
// a word to a fixed ten character code. Words that sound alike, such as
// "Peter" and "Peady", share a code, so exact code equality serves as the
// matching primitive for deduplication and record linkage.
//
// The pipeline runs in a fixed order:
//
//  1. keep ASCII letters only and lower-case them
//  2. drop a trailing "e"
//  3. rewrite anchored irregular spellings ("cough", "gn", "mb")
//  4. collapse digraphs and silence letters ("tch", "ph", "sh")
//  5. keep a leading vowel as A and mark the others
//  6. collapse consonant runs into one code letter
//  7. strip placeholder markers
//  8. pad with '1' or truncate to ten characters
//
// Steps 3 through 7 are driven by the declarative table returned by Rules.
// Every rule sees the buffer as rewritten by all rules before it.
//
// Encoders hold no mutable state and are safe for concurrent use.
package phonetic
