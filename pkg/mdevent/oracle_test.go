package mdevent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/docsplice/pkg/mdevent"
)

// TestTokenizeAgainstGoldmark cross-checks the tokenizer against goldmark on
// documents within the CommonMark subset both parsers agree on: inline links
// with explicit destinations, ATX headings, and fenced code.
func TestTokenizeAgainstGoldmark(t *testing.T) {
	t.Parallel()

	docs := []string{
		"# Title\n\nSome [a](/x) and [b](https://y.test/z).\n\n```go\ncode\n```\n",
		"## Usage\n\nCall [`open`](file/fn.open.html) with a path.\n",
		"Intro paragraph.\n\n```rust\nfn main() {}\n```\n\n### Notes\n\nSee [docs](https://docs.test/pkg).\n",
		"Plain text with `code span` and no links.\n",
		"# A\n\n# B\n\n[x](one) then [y](two) in one line.\n",
	}

	for _, src := range docs {
		events := mdevent.Tokenize(src)

		var wantDests, wantFences []string
		wantHeadings := 0

		doc := goldmark.New().Parser().Parse(text.NewReader([]byte(src)))
		err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch node := n.(type) {
			case *ast.Link:
				wantDests = append(wantDests, string(node.Destination))
			case *ast.Heading:
				wantHeadings++
			case *ast.FencedCodeBlock:
				wantFences = append(wantFences, string(node.Language([]byte(src))))
			}
			return ast.WalkContinue, nil
		})
		require.NoError(t, err)

		assert.Equal(t, wantDests,
			spans(src, events, mdevent.NameResourceDestinationString), "dests for %q", src)
		assert.Len(t,
			spans(src, events, mdevent.NameHeadingSequence), wantHeadings, "headings for %q", src)
		assert.Equal(t, wantFences,
			spans(src, events, mdevent.NameCodeFenceInfo), "fence info for %q", src)
	}
}
