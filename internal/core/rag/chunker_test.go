package rag

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t"} {
		if got := Split(text, "doc", 100, 20); got != nil {
			t.Errorf("Split(%q) = %d chunks, want none", text, len(got))
		}
	}
}

func TestSplitShortText(t *testing.T) {
	text := "A single short paragraph."
	chunks := Split(text, "doc", 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text %q != input", chunks[0].Text)
	}
	if chunks[0].Source != "doc" || chunks[0].Position != 0 {
		t.Errorf("metadata = {%q, %d}, want {doc, 0}", chunks[0].Source, chunks[0].Position)
	}
}

func TestSplitInvariants(t *testing.T) {
	long := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	cases := []struct {
		name          string
		text          string
		size, overlap int
	}{
		{"sentences", long, 100, 20},
		{"tight window", long, 50, 10},
		{"no overlap", long, 80, 0},
		{"paragraphs", strings.Repeat("First paragraph here.\n\nSecond one follows.\n\n", 30), 90, 15},
		{"no separators at all", strings.Repeat("x", 500), 64, 16},
		{"unicode", strings.Repeat("héllo wörld çafé ", 50), 40, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := Split(tc.text, "doc", tc.size, tc.overlap)
			if len(chunks) == 0 {
				t.Fatal("expected chunks")
			}
			for i, c := range chunks {
				if n := len([]rune(c.Text)); n > tc.size {
					t.Errorf("chunk %d has %d runes, max %d", i, n, tc.size)
				}
				if c.Position != i {
					t.Errorf("chunk %d has position %d", i, c.Position)
				}
			}
			// Every seam duplicates exactly overlap runes.
			for i := 1; i < len(chunks); i++ {
				prev := []rune(chunks[i-1].Text)
				curr := []rune(chunks[i].Text)
				if tc.overlap == 0 {
					continue
				}
				tail := string(prev[len(prev)-tc.overlap:])
				head := string(curr[:tc.overlap])
				if tail != head {
					t.Errorf("seam %d: tail %q != head %q", i, tail, head)
				}
			}
			// Chunks reassemble the input once the seams are dropped.
			var sb strings.Builder
			sb.WriteString(chunks[0].Text)
			for i := 1; i < len(chunks); i++ {
				curr := []rune(chunks[i].Text)
				sb.WriteString(string(curr[tc.overlap:]))
			}
			if sb.String() != tc.text {
				t.Error("chunks do not reassemble the original text")
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Some sentences here. And more of them! Plus a question? ", 40)
	a := Split(text, "doc", 120, 30)
	b := Split(text, "doc", 120, 30)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input must produce identical chunks")
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	chunks := Split(parisText, "paris", 40, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "France. ") {
		t.Errorf("first chunk should cut after the sentence, got %q", chunks[0].Text)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	text := "First paragraph with some words in it.\n\nSecond paragraph continues the document with more words."
	chunks := Split(text, "doc", 60, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("first chunk should cut after the paragraph break, got %q", chunks[0].Text)
	}
}

func TestSplitClampsDegenerateOverlap(t *testing.T) {
	// overlap >= size cannot make progress; the splitter must still
	// terminate and respect the size bound.
	text := strings.Repeat("words and words ", 30)
	chunks := Split(text, "doc", 20, 50)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if n := len([]rune(c.Text)); n > 20 {
			t.Errorf("chunk %d has %d runes, max 20", i, n)
		}
	}
}
