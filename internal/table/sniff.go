package table

import "strings"

// Candidate delimiters, in preference order for ties.
var delimiters = []rune{',', ';', '\t', '|'}

const sniffLines = 20

// SniffDelimiter picks the delimiter that splits the first lines of text most
// consistently. A candidate is consistent when it appears the same non-zero
// number of times (outside quotes) on every sampled line. Among consistent
// candidates the highest count wins; without any, the most frequent one in
// the header line wins. Defaults to ','.
func SniffDelimiter(text string) rune {
	lines := sampleLines(text, sniffLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := rune(0), 0
	for _, d := range delimiters {
		count, ok := consistentCount(lines, d)
		if ok && count > bestCount {
			best, bestCount = d, count
		}
	}
	if best != 0 {
		return best
	}

	for _, d := range delimiters {
		if c := countOutsideQuotes(lines[0], d); c > bestCount {
			best, bestCount = d, c
		}
	}
	if best != 0 {
		return best
	}
	return ','
}

func sampleLines(text string, n int) []string {
	out := make([]string, 0, n)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func consistentCount(lines []string, d rune) (int, bool) {
	want := countOutsideQuotes(lines[0], d)
	if want == 0 {
		return 0, false
	}
	for _, line := range lines[1:] {
		if countOutsideQuotes(line, d) != want {
			return 0, false
		}
	}
	return want, true
}

func countOutsideQuotes(line string, d rune) int {
	inQuotes := false
	count := 0
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == d && !inQuotes:
			count++
		}
	}
	return count
}
