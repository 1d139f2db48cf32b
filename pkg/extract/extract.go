// Package extract turns a documentation dump into README-ready markdown:
// the root module's docs with every doc link resolved to a rendered-docs
// URL and the markdown normalized for a standalone document.
package extract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/docsplice/pkg/diag"
	"github.com/yaklabco/docsplice/pkg/itemgraph"
	"github.com/yaklabco/docsplice/pkg/resolve"
	"github.com/yaklabco/docsplice/pkg/rewrite"
)

// Options configures an extraction.
type Options struct {
	// Resolve configures URL construction for doc links.
	Resolve resolve.Options

	// ShrinkHeadings shifts every heading of the extracted docs, clamped
	// to levels 1 through 6.
	ShrinkHeadings int

	// SampleLanguage and SamplePrefixes configure code block
	// normalization; see rewrite.Options.
	SampleLanguage string
	SamplePrefixes []string

	// LinkFailureSeverity ranks doc links that fail to resolve. Unset
	// means SeverityWarning.
	LinkFailureSeverity diag.Severity

	// Diagnostics receives per-link resolution failures and rewrite
	// notes. Optional.
	Diagnostics diag.Sink
}

func (o *Options) linkFailureSeverity() diag.Severity {
	if o.LinkFailureSeverity == 0 {
		return diag.SeverityWarning
	}
	return o.LinkFailureSeverity
}

func (o *Options) report(d diag.Diagnostic) {
	if o.Diagnostics != nil {
		o.Diagnostics.Report(d)
	}
}

// Extract returns the root module's documentation rewritten for a README
// audience. Doc links that fail to resolve are reported to the diagnostics
// sink and dissolve to their label text; only a malformed dump is fatal.
func Extract(graph *itemgraph.Graph, registry itemgraph.Registry, opts Options) (string, error) {
	root, ok := graph.Item(graph.Root)
	if !ok {
		return "", fmt.Errorf("dump index has no root module %q", graph.Root)
	}

	resolver := resolve.New(graph, registry, opts.Resolve)

	return rewrite.Rewrite(root.Docs, rewrite.Options{
		ShrinkHeadings: opts.ShrinkHeadings,
		Links:          linkTable(resolver, root, &opts),
		SampleLanguage: opts.SampleLanguage,
		SamplePrefixes: opts.SamplePrefixes,
		Diagnostics:    opts.Diagnostics,
	}), nil
}

// linkTable resolves the root item's doc links, in token order for a
// deterministic definition block. Doc links may address a section within an
// item's page by a trailing `#fragment`; the fragment carries over to the
// resolved URL.
func linkTable(r *resolve.Resolver, root itemgraph.Item, opts *Options) []rewrite.Link {
	tokens := make([]string, 0, len(root.Links))
	for token := range root.Links {
		tokens = append(tokens, token)
	}
	slices.Sort(tokens)

	links := make([]rewrite.Link, 0, len(tokens))
	for _, token := range tokens {
		url, err := r.ItemURL(root.Links[token])
		if err != nil {
			opts.report(diag.Diagnostic{
				Severity: opts.linkFailureSeverity(),
				Message:  "failed to resolve doc link",
				Context:  token,
				Err:      err,
			})
			links = append(links, rewrite.Link{Label: token})
			continue
		}
		if hash := strings.IndexByte(token, '#'); hash >= 0 {
			url += token[hash:]
		}
		links = append(links, rewrite.Link{Label: token, URL: url})
	}
	return links
}
