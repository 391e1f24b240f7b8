package chunker

import (
	"regexp"
	"strings"
)

var sentenceBoundaryRe = regexp.MustCompile(`(?m)([.!?])\s+`)

// semanticChunk splits text into word-bounded chunks: accumulate whole
// paragraphs until MaxWords would be
// exceeded, flush once MinWords is met, carry the trailing OverlapWords
// words into the next chunk. A paragraph longer than MaxWords on its own
// is further split on sentence boundaries.
func semanticChunk(text string, opt ChunkingOptions) []Chunk {
	minWords, maxWords, overlapWords := opt.MinWords, opt.MaxWords, opt.OverlapWords
	if minWords <= 0 {
		minWords = 50
	}
	if maxWords <= 0 {
		maxWords = 1200
	}
	if overlapWords < 0 {
		overlapWords = 0
	}

	units := paragraphUnits(text, maxWords)

	var out []Chunk
	var buf []string
	idx := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		out = append(out, Chunk{Index: idx, Text: strings.TrimSpace(strings.Join(buf, "\n\n"))})
		idx++
		carry := overlapWords
		if carry == 0 {
			buf = nil
			return
		}
		words := strings.Fields(strings.Join(buf, " "))
		if len(words) <= carry {
			buf = []string{strings.Join(words, " ")}
		} else {
			buf = []string{strings.Join(words[len(words)-carry:], " ")}
		}
	}

	bufWordCount := func() int {
		n := 0
		for _, u := range buf {
			n += len(strings.Fields(u))
		}
		return n
	}

	for _, unit := range units {
		unitWords := len(strings.Fields(unit))
		if bufWordCount()+unitWords > maxWords && bufWordCount() >= minWords {
			flush()
		}
		buf = append(buf, unit)
	}
	flush()

	if len(out) == 0 && strings.TrimSpace(text) != "" {
		out = append(out, Chunk{Index: 0, Text: strings.TrimSpace(text)})
	}
	return out
}

// paragraphUnits splits on blank lines; any paragraph exceeding maxWords is
// further split into sentences, so a unit exceeds maxWords only when a
// single sentence does.
func paragraphUnits(text string, maxWords int) []string {
	paragraphs := regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	units := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(strings.Fields(p)) <= maxWords {
			units = append(units, p)
			continue
		}
		units = append(units, splitSentences(p)...)
	}
	return units
}

func splitSentences(p string) []string {
	parts := sentenceBoundaryRe.Split(p, -1)
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
