package rag

import "strings"

// Default chunking parameters, tuned for retrieval over prose documents.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is a bounded, overlapping substring of a document's text, the unit
// indexed for retrieval.
type Chunk struct {
	Source   string `json:"source"`   // document key the chunk came from
	Position int    `json:"position"` // zero-based order within the document
	Text     string `json:"text"`
}

// Split cuts text into chunks of at most size runes. Each chunk after the
// first starts exactly overlap runes before the end of the previous chunk,
// so content is duplicated across the seam. Within a window the cut point
// prefers, in order: a paragraph break, a newline, a sentence end, a space,
// and finally a hard character cut. Splitting is deterministic.
//
// Empty or whitespace-only text yields zero chunks; text shorter than size
// yields exactly one.
func Split(text, source string, size, overlap int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}

	runes := []rune(text)
	var chunks []Chunk
	cur := 0
	for {
		end := cur + size
		if end >= len(runes) {
			chunks = append(chunks, Chunk{Source: source, Position: len(chunks), Text: string(runes[cur:])})
			return chunks
		}
		// The cut may not retreat past the overlap region, or the next
		// chunk would start at or before the current one.
		floor := cur + overlap + 1
		cut := cutPoint(runes, floor, end)
		chunks = append(chunks, Chunk{Source: source, Position: len(chunks), Text: string(runes[cur:cut])})
		cur = cut - overlap
	}
}

// Separator tiers tried in order when choosing a cut point. Within a tier the
// rightmost match wins; a later tier is consulted only if no earlier tier
// matches inside the window.
var separatorTiers = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{" "},
}

// cutPoint returns the position in (lo, hi] to cut at, preferring to cut
// just after a separator. hi is returned when no separator falls in range.
func cutPoint(runes []rune, lo, hi int) int {
	for _, tier := range separatorTiers {
		best := -1
		for _, sep := range tier {
			s := []rune(sep)
			for j := hi; j >= lo && j >= len(s); j-- {
				if string(runes[j-len(s):j]) == sep {
					if j > best {
						best = j
					}
					break
				}
			}
		}
		if best >= 0 {
			return best
		}
	}
	return hi
}
