// Package names canonicalizes free-text player names.
//
// Normalize turns a raw display name into the comparison key used to
// deduplicate players across sources: accents are decomposed and dropped,
// case is folded, punctuation becomes whitespace and whitespace is collapsed.
// Classify and Collector support name-quality surveys of raw files (full
// names, initial forms such as "G. Granollers", and single-token names).
package names
