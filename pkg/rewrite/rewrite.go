// Package rewrite adjusts extracted documentation markdown for a README
// audience: doc links get their resolved URLs, headings shift to fit the
// target document's hierarchy, and code blocks are normalized to plain
// fenced samples.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/docsplice/pkg/diag"
	"github.com/yaklabco/docsplice/pkg/mdevent"
	"github.com/yaklabco/docsplice/pkg/splice"
)

// An unresolved link's definition gets this destination so that its
// references still tokenize as links; the rewrite pass then strips both the
// references and the definition.
const placeholderDestination = "__PLACEHOLDER_DESTINATION__"

// Link is one entry of the link table. An empty URL marks a doc link that
// could not be resolved; its occurrences are replaced by their label text.
type Link struct {
	Label string
	URL   string
}

// Options configures a rewrite pass.
type Options struct {
	// ShrinkHeadings shifts every ATX heading by this many levels,
	// clamped to the range 1 through 6.
	ShrinkHeadings int

	// Links is the resolved link table, in definition append order.
	Links []Link

	// SampleLanguage is the fence label given to normalized code samples.
	// Defaults to "rust".
	SampleLanguage string

	// SamplePrefixes are info-string prefixes identifying sample code
	// blocks. Defaults cover the doc-test attribute vocabulary.
	SamplePrefixes []string

	// Diagnostics receives notes about suspicious input, such as fence
	// languages no classifier knows. Optional.
	Diagnostics diag.Sink
}

var defaultSamplePrefixes = []string{
	"rust",
	"ignore",
	"should_panic",
	"no_run",
	"compile_fail",
	"edition",
	"standalone_crate",
}

func (o *Options) sampleLanguage() string {
	if o.SampleLanguage == "" {
		return "rust"
	}
	return o.SampleLanguage
}

func (o *Options) samplePrefixes() []string {
	if o.SamplePrefixes == nil {
		return defaultSamplePrefixes
	}
	return o.SamplePrefixes
}

func (o *Options) report(d diag.Diagnostic) {
	if o.Diagnostics != nil {
		o.Diagnostics.Report(d)
	}
}

// Rewrite applies the link table and formatting options to markdown.
func Rewrite(markdown string, opts Options) string {
	markdown = addDefinitions(markdown, opts.Links)

	events := mdevent.Tokenize(markdown)
	if len(events) == 0 {
		return markdown
	}

	w := &rewriter{
		out:      splice.New(markdown),
		src:      markdown,
		events:   events,
		resolved: make(map[string]string, len(opts.Links)),
		opts:     &opts,
	}
	for _, link := range opts.Links {
		w.resolved[link.Label] = link.URL
	}
	w.referenced = w.survivingReferences()

	// Headings are keyed on their marker sequence, not the heading exit:
	// the sequence exit precedes any nested link events, so the reverse
	// walk queues link edits before the lower-offset marker replacement.
	interesting := []mdevent.Name{
		mdevent.NameHeadingSequence,
		mdevent.NameCodeFenced,
		mdevent.NameCodeIndented,
		mdevent.NameDefinition,
		mdevent.NameLink,
	}
	for index := mdevent.FindAnyOf(events, len(events), interesting); index >= 0; index = mdevent.FindAnyOf(events, index, interesting) {
		w.processOne(index)
	}

	return w.out.Finish()
}

// addDefinitions appends a link reference definition per table entry so
// that reference and shortcut doc links parse as links.
func addDefinitions(markdown string, links []Link) string {
	if len(links) == 0 {
		return markdown
	}

	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n\n")
	for _, link := range links {
		dest := link.URL
		if dest == "" {
			dest = placeholderDestination
		}
		fmt.Fprintf(&b, "[%s]: %s\n", link.Label, dest)
	}
	return b.String()
}

type rewriter struct {
	out        *splice.Replacer
	src        string
	events     []mdevent.Event
	resolved   map[string]string
	referenced map[string]bool
	opts       *Options
}

// survivingReferences collects the folded labels of every reference-form
// link and image that the rewrite keeps. Definitions no surviving reference
// points at are deleted.
func (w *rewriter) survivingReferences() map[string]bool {
	referenced := make(map[string]bool)
	for i, ev := range w.events {
		if ev.Kind != mdevent.Exit {
			continue
		}
		switch ev.Name {
		case mdevent.NameLink:
			identifier, ok := w.referenceIdentifier(i)
			if !ok {
				continue
			}
			if url, hit := w.resolved[identifier]; hit && url == "" {
				continue // dissolves to label text
			}
			referenced[foldLabel(identifier)] = true
		case mdevent.NameImage:
			if identifier, ok := w.referenceIdentifier(i); ok {
				referenced[foldLabel(identifier)] = true
			}
		}
	}
	return referenced
}

// referenceIdentifier returns the definition label a reference, collapsed or
// shortcut link resolves through. Resource links have none.
func (w *rewriter) referenceIdentifier(index int) (string, bool) {
	if mdevent.Child(w.events, index, mdevent.NameResource) >= 0 {
		return "", false
	}
	if reference := mdevent.Child(w.events, index, mdevent.NameReference); reference >= 0 {
		if str := mdevent.Child(w.events, reference, mdevent.NameReferenceString); str >= 0 {
			return w.text(str), true
		}
	}
	label := mdevent.Child(w.events, index, mdevent.NameLabel)
	if label < 0 {
		return "", false
	}
	labelText := mdevent.Child(w.events, label, mdevent.NameLabelText)
	if labelText < 0 {
		return "", false
	}
	return w.text(labelText), true
}

// foldLabel matches a link identifier against a definition label: case
// insensitive, interior whitespace collapsed.
func foldLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func (w *rewriter) text(exitIndex int) string {
	start, end := mdevent.ByteRange(w.events, exitIndex)
	return w.src[start:end]
}

func (w *rewriter) processOne(index int) {
	switch w.events[index].Name {
	case mdevent.NameHeadingSequence:
		w.processHeading(index)
	case mdevent.NameCodeFenced:
		w.processCodeFenced(index)
	case mdevent.NameCodeIndented:
		w.processCodeIndented(index)
	case mdevent.NameLink:
		w.processLink(index)
	case mdevent.NameDefinition:
		w.processDefinition(index)
	}
}

func (w *rewriter) processHeading(hashes int) {
	start, end := mdevent.ByteRange(w.events, hashes)
	level := end - start + w.opts.ShrinkHeadings
	level = min(max(level, 1), 6)
	w.out.Replace(start, end, "######"[:level])
}

func (w *rewriter) processCodeFenced(index int) {
	lang := w.opts.sampleLanguage()

	if info := mdevent.Descendant(w.events, index, mdevent.NameCodeFenceInfo); info >= 0 {
		infoStart, infoEnd := mdevent.ByteRange(w.events, info)
		infoText := w.src[infoStart:infoEnd]

		if !w.fenceIsSample(infoText) {
			w.checkFenceLanguage(infoText)
			return
		}

		w.cleanChunks(index)
		w.out.Replace(infoStart, infoEnd, lang)
		return
	}

	// A fence without an info string is a sample too; label the opening
	// fence. In the reverse walk the opening fence is the second sequence.
	var opening = -1
	seen := 0
	for _, i := range mdevent.Descendants(w.events, index) {
		if w.events[i].Name == mdevent.NameCodeFenceSequence {
			seen++
			if seen == 2 {
				opening = i
				break
			}
		}
	}
	if opening < 0 {
		return
	}

	_, insertPoint := mdevent.ByteRange(w.events, opening)
	w.cleanChunks(index)
	w.out.Insert(insertPoint, lang)
}

func (w *rewriter) processCodeIndented(index int) {
	lang := w.opts.sampleLanguage()
	start, end := mdevent.ByteRange(w.events, index)

	w.out.Insert(end, "\n```")
	for _, child := range mdevent.Children(w.events, index) {
		switch w.events[child].Name {
		case mdevent.NameSpaceOrTab:
			cs, ce := mdevent.ByteRange(w.events, child)
			w.out.Remove(cs, ce)
		case mdevent.NameCodeFlowChunk:
			cs, ce := mdevent.ByteRange(w.events, child)
			w.cleanCodeChunk(cs, ce, end)
		}
	}
	w.out.Insert(start, "```"+lang+"\n")
}

func (w *rewriter) processLink(index int) {
	label := mdevent.Child(w.events, index, mdevent.NameLabel)
	if label < 0 {
		return
	}

	if resource := mdevent.Child(w.events, index, mdevent.NameResource); resource >= 0 {
		dest := mdevent.Child(w.events, resource, mdevent.NameResourceDestination)
		if dest < 0 {
			return
		}
		destString := mdevent.Descendant(w.events, dest, mdevent.NameResourceDestinationString)
		if destString < 0 {
			return
		}

		destText := w.text(destString)
		url, ok := w.resolved[destText]
		if !ok {
			return
		}
		if url == "" {
			w.replaceLinkWithLabelText(index, label)
			return
		}

		// A destination may address a section within the item's page; the
		// fragment survives the rewrite.
		if hash := strings.IndexByte(destText, '#'); hash >= 0 && !strings.HasSuffix(url, destText[hash:]) {
			url += destText[hash:]
		}

		start, end := mdevent.ByteRange(w.events, dest)
		w.out.Replace(start, end, url)
		return
	}

	if reference := mdevent.Child(w.events, index, mdevent.NameReference); reference >= 0 {
		var identifier string
		if str := mdevent.Child(w.events, reference, mdevent.NameReferenceString); str >= 0 {
			identifier = w.text(str)
		} else if labelText := mdevent.Child(w.events, label, mdevent.NameLabelText); labelText >= 0 {
			identifier = w.text(labelText)
		} else {
			return
		}

		url, ok := w.resolved[identifier]
		if !ok {
			return
		}
		if url == "" {
			w.replaceLinkWithLabelText(index, label)
		}
		// Resolved references need no edit; their definition carries the
		// URL.
		return
	}

	// Shortcut form.
	labelText := mdevent.Child(w.events, label, mdevent.NameLabelText)
	if labelText < 0 {
		return
	}
	url, ok := w.resolved[w.text(labelText)]
	if !ok {
		return
	}
	if url == "" {
		w.replaceLinkWithLabelText(index, label)
	}
}

func (w *rewriter) replaceLinkWithLabelText(index, label int) {
	labelText := mdevent.Child(w.events, label, mdevent.NameLabelText)
	if labelText < 0 {
		return
	}
	start, end := mdevent.ByteRange(w.events, index)
	w.out.Replace(start, end, w.text(labelText))
}

func (w *rewriter) processDefinition(index int) {
	dest := mdevent.Child(w.events, index, mdevent.NameDefinitionDestination)
	if dest < 0 {
		return
	}
	destString := mdevent.Descendant(w.events, dest, mdevent.NameDefinitionDestinationString)
	if destString < 0 {
		return
	}

	destText := w.text(destString)
	if destText == placeholderDestination || !w.definitionReferenced(index) {
		start, end := mdevent.ByteRange(w.events, index)
		w.out.Remove(start, endOfLine(w.src, end))
		return
	}

	url, ok := w.resolved[destText]
	if !ok || url == "" {
		return
	}
	start, end := mdevent.ByteRange(w.events, dest)
	w.out.Replace(start, end, url)
}

func (w *rewriter) definitionReferenced(index int) bool {
	labelString := mdevent.Child(w.events, index, mdevent.NameDefinitionLabelString)
	if labelString < 0 {
		return true
	}
	return w.referenced[foldLabel(w.text(labelString))]
}

// cleanChunks strips hidden-line markers from every code chunk of a fenced
// block.
func (w *rewriter) cleanChunks(index int) {
	for _, child := range mdevent.Children(w.events, index) {
		if w.events[child].Name == mdevent.NameCodeFlowChunk {
			start, end := mdevent.ByteRange(w.events, child)
			w.cleanCodeChunk(start, end, len(w.src))
		}
	}
}

// cleanCodeChunk handles doc-test hidden lines: a line whose trimmed form
// is `#` or starts with `# ` disappears; `##` unescapes to a single `#`.
// Removals never pass limit, which keeps the final line of an indented
// block clear of the fence inserted at the block end.
func (w *rewriter) cleanCodeChunk(start, end, limit int) {
	line := w.src[start:end]
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "#") {
		return
	}

	rest := trimmed[1:]
	switch {
	case rest == "" || rest[0] == ' ':
		w.out.Remove(start, min(endOfLine(w.src, end), limit))
	case rest[0] == '#':
		mid := start + (len(line) - len(trimmed))
		w.out.Remove(mid, mid+1)
	}
}

func endOfLine(s string, index int) int {
	if i := strings.IndexByte(s[index:], '\n'); i >= 0 {
		return index + i + 1
	}
	return len(s)
}

// fenceIsSample reports whether a fence info string marks sample code.
func (w *rewriter) fenceIsSample(info string) bool {
	return infoIsSample(info, w.opts.samplePrefixes())
}

func infoIsSample(info string, prefixes []string) bool {
	if info == "" {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(info, prefix) {
			return true
		}
	}
	return false
}

// checkFenceLanguage flags fence labels that neither the sample vocabulary
// nor the language classifier recognizes. Purely advisory.
func (w *rewriter) checkFenceLanguage(info string) {
	lang, errs := fenceLanguage(info)
	for _, msg := range errs {
		w.opts.report(diag.Diagnostic{
			Severity: diag.SeverityDebug,
			Message:  msg,
			Context:  info,
		})
	}
	if lang == "" {
		return
	}
	if _, ok := enry.GetLanguageByAlias(lang); !ok {
		w.opts.report(diag.Diagnostic{
			Severity: diag.SeverityDebug,
			Message:  "unknown code fence language",
			Context:  lang,
		})
	}
}
