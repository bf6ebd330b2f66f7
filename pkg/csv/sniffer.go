package csv

import "strings"

// Sniffer detects the CSV dialect of a sample: the most likely field
// separator and the dominant line terminator. Provide at least two or
// three lines of data for useful results.
type Sniffer struct {
	sample     string
	comma      rune
	terminator LineTerminator
	analyzed   bool
}

// NewSniffer creates a Sniffer over a sample of CSV data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

// DetectComma returns the detected field separator. Candidates are
// comma, tab, semicolon, and pipe.
func (s *Sniffer) DetectComma() rune {
	s.analyze()
	return s.comma
}

// DetectTerminator returns the dominant line terminator in the
// sample. Defaults to CRLF when the sample has no terminators.
func (s *Sniffer) DetectTerminator() LineTerminator {
	s.analyze()
	return s.terminator
}

// ReaderOptions returns default reader options with the detected
// separator applied.
func (s *Sniffer) ReaderOptions() ReaderOptions {
	opts := DefaultReaderOptions()
	opts.Comma = s.DetectComma()
	return opts
}

// WriterOptions returns default writer options with the detected
// separator and terminator applied.
func (s *Sniffer) WriterOptions() WriterOptions {
	opts := DefaultWriterOptions()
	opts.Comma = s.DetectComma()
	opts.Terminator = s.DetectTerminator()
	return opts
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.comma = s.detectComma()
	s.terminator = s.detectTerminator()
	s.analyzed = true
}

// detectComma scores candidate separators by per-line count,
// rewarding counts that stay consistent across lines.
func (s *Sniffer) detectComma() rune {
	candidates := []rune{',', '\t', ';', '|'}
	lines := splitLines(s.sample)

	best := ','
	bestScore := 0
	for _, cand := range candidates {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			if line == "" {
				continue
			}
			counts = append(counts, countSeparators(line, cand))
		}
		if len(counts) == 0 || counts[0] == 0 {
			continue
		}

		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		score := counts[0]
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

// countSeparators counts occurrences of sep outside quoted sections.
func countSeparators(line string, sep rune) int {
	count := 0
	inQuotes := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == sep && !inQuotes:
			count++
		}
	}
	return count
}

// detectTerminator counts terminator sequences and returns the most
// frequent one.
func (s *Sniffer) detectTerminator() LineTerminator {
	crlf := strings.Count(s.sample, "\r\n")
	cr := strings.Count(s.sample, "\r") - crlf
	lf := strings.Count(s.sample, "\n") - crlf

	switch {
	case lf > crlf && lf >= cr:
		return TerminateLF
	case cr > crlf && cr > lf:
		return TerminateCR
	default:
		return TerminateCRLF
	}
}
