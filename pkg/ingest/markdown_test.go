package ingest

import (
	"testing"
)

const sampleDoc = `Intro text before any heading.

# Algebra

Linear equations have the form ax + b = 0.

## Quadratic Equations

The quadratic formula is x = (-b ± √(b²-4ac)) / 2a.

### Discriminant

b²-4ac determines the number of real roots.

## Factoring

Common factoring patterns.

# Calculus

Derivatives measure rate of change.
`

func TestSplitMarkdown(t *testing.T) {
	chunks := SplitMarkdown("algebra.md", sampleDoc)

	if len(chunks) != 6 {
		t.Fatalf("chunk count = %d, want 6", len(chunks))
	}

	for i, c := range chunks {
		if c.Source != "algebra.md" {
			t.Errorf("chunk %d source = %q, want algebra.md", i, c.Source)
		}
	}

	// Preamble has no header metadata
	if len(chunks[0].Metadata) != 0 {
		t.Errorf("preamble metadata = %v, want empty", chunks[0].Metadata)
	}

	// Level-3 chunk carries the full hierarchy
	disc := chunks[3]
	if disc.Metadata["Header 1"] != "Algebra" ||
		disc.Metadata["Header 2"] != "Quadratic Equations" ||
		disc.Metadata["Header 3"] != "Discriminant" {
		t.Errorf("discriminant metadata = %v", disc.Metadata)
	}

	// A new level-2 heading clears the stale level-3 entry
	factoring := chunks[4]
	if factoring.Metadata["Header 2"] != "Factoring" {
		t.Errorf("factoring Header 2 = %q", factoring.Metadata["Header 2"])
	}
	if _, ok := factoring.Metadata["Header 3"]; ok {
		t.Errorf("factoring still carries Header 3: %v", factoring.Metadata)
	}

	// A new level-1 heading clears everything below it
	calc := chunks[5]
	if calc.Metadata["Header 1"] != "Calculus" {
		t.Errorf("calculus Header 1 = %q", calc.Metadata["Header 1"])
	}
	if _, ok := calc.Metadata["Header 2"]; ok {
		t.Errorf("calculus still carries Header 2: %v", calc.Metadata)
	}
}

func TestSplitMarkdownIgnoresHeadingsInCodeFences(t *testing.T) {
	doc := "# Top\n\nSome text.\n\n```\n# not a heading\n## also not\n```\n\nAfter fence.\n"
	chunks := SplitMarkdown("doc.md", doc)

	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Metadata["Header 1"] != "Top" {
		t.Errorf("Header 1 = %q", chunks[0].Metadata["Header 1"])
	}
}

func TestSplitMarkdownDeepHeadingsStayInline(t *testing.T) {
	doc := "### Level Three\n\nBody.\n\n#### Level Four\n\nStill same chunk.\n"
	chunks := SplitMarkdown("doc.md", doc)

	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
}

func TestSplitMarkdownEmptyAndHeadingOnly(t *testing.T) {
	if chunks := SplitMarkdown("empty.md", ""); len(chunks) != 0 {
		t.Errorf("empty doc produced %d chunks", len(chunks))
	}
	// Headings with no body text produce nothing retrievable
	if chunks := SplitMarkdown("bare.md", "# One\n## Two\n"); len(chunks) != 0 {
		t.Errorf("heading-only doc produced %d chunks", len(chunks))
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel int
		wantTitle string
	}{
		{"# Title", 1, "Title"},
		{"## Sub", 2, "Sub"},
		{"### Deep", 3, "Deep"},
		{"#### Deeper", 4, "Deeper"},
		{"#NoSpace", 0, ""},
		{"plain text", 0, ""},
		{"#", 0, ""},
	}

	for _, tt := range tests {
		level, title := headingLevel(tt.line)
		if level != tt.wantLevel || title != tt.wantTitle {
			t.Errorf("headingLevel(%q) = (%d, %q), want (%d, %q)",
				tt.line, level, title, tt.wantLevel, tt.wantTitle)
		}
	}
}
