package mdevent

import "strings"

// Tokenize performs a single pass over src and returns the complete event
// stream. It never fails: spans that do not parse as a construct degrade to
// literal text.
func Tokenize(src string) []Event {
	if src == "" {
		return nil
	}

	t := &tokenizer{
		src:     src,
		events:  make([]Event, 0, len(src)/8),
		defined: collectDefinitionLabels(src),
	}

	for t.pos < len(t.src) {
		t.scanLine()
	}
	t.closeParagraph()

	return t.events
}

type tokenizer struct {
	src    string
	events []Event
	pos    int

	// defined holds the normalized labels of all link reference definitions
	// in the document; reference and shortcut brackets only parse as links
	// when their label is defined.
	defined map[string]bool

	paraOpen bool
	paraEnd  int

	// pendingLink stages the events of a bracket construct until it is known
	// to parse; a failed parse discards them.
	pendingLink []Event
}

func (t *tokenizer) enter(name Name, offset int) {
	t.events = append(t.events, Event{Kind: Enter, Name: name, Offset: offset})
}

func (t *tokenizer) exit(name Name, offset int) {
	t.events = append(t.events, Event{Kind: Exit, Name: name, Offset: offset})
}

func (t *tokenizer) openParagraph(at int) {
	if !t.paraOpen {
		t.enter(NameParagraph, at)
		t.paraOpen = true
	}
}

func (t *tokenizer) closeParagraph() {
	if t.paraOpen {
		t.exit(NameParagraph, t.paraEnd)
		t.paraOpen = false
	}
}

// lineEnd returns the offset of the newline terminating the line starting at
// start, or len(src).
func (t *tokenizer) lineEnd(start int) int {
	if i := strings.IndexByte(t.src[start:], '\n'); i >= 0 {
		return start + i
	}
	return len(t.src)
}

// advanceLine moves past the line ending at end.
func (t *tokenizer) advanceLine(end int) {
	if end < len(t.src) {
		end++
	}
	t.pos = end
}

// scanLine recognizes the block construct starting at the current line and
// consumes it, possibly consuming following lines for multi-line constructs.
func (t *tokenizer) scanLine() {
	lineStart := t.pos
	end := t.lineEnd(lineStart)
	line := t.src[lineStart:end]

	if isBlank(line) {
		t.closeParagraph()
		t.advanceLine(end)
		return
	}

	indent := indentWidth(line)

	// Indented code starts only outside a paragraph; inside one the line is
	// a lazy continuation.
	if indent >= 4 && !t.paraOpen {
		t.scanCodeIndented()
		return
	}

	// Offset of the first interesting byte after indentation and any
	// blockquote markers.
	rest := lineStart + indentBytes(line)

	// Blockquote markers. Only the marker run is a construct of its own; the
	// remainder of the line is scanned like any other line.
	for rest < end && t.src[rest] == '>' {
		t.enter(NameBlockQuoteMarker, rest)
		t.exit(NameBlockQuoteMarker, rest+1)
		rest++
		if rest < end && t.src[rest] == ' ' {
			rest++
		}
		for rest < end && (t.src[rest] == ' ' || t.src[rest] == '\t') {
			rest++
		}
	}

	if rest >= end {
		// A bare marker line; keeps the paragraph open.
		t.advanceLine(end)
		return
	}

	switch t.src[rest] {
	case '#':
		if t.tryHeading(rest, end) {
			t.advanceLine(end)
			return
		}
	case '`', '~':
		if t.tryCodeFenced(rest, end) {
			return
		}
	case '*', '-', '_':
		if isThematicBreak(t.src[rest:end]) {
			t.closeParagraph()
			t.enter(NameThematicBreak, rest)
			t.exit(NameThematicBreak, end)
			t.advanceLine(end)
			return
		}
	case '<':
		if !t.paraOpen && t.tryHTMLFlow(rest) {
			return
		}
	case '[':
		if !t.paraOpen && t.tryDefinition(rest, end) {
			t.advanceLine(end)
			return
		}
	}

	// List item markers start a fresh paragraph for the item content.
	if w := listMarkerWidth(t.src[rest:end]); w > 0 {
		t.closeParagraph()
		t.enter(NameListItemMarker, rest)
		t.exit(NameListItemMarker, rest+w)
		rest += w
		for rest < end && (t.src[rest] == ' ' || t.src[rest] == '\t') {
			rest++
		}
	}

	// Paragraph content.
	t.openParagraph(rest)
	t.scanInline(rest, trimTrailingSpace(t.src, rest, end))
	t.paraEnd = trimTrailingSpace(t.src, rest, end)
	t.advanceLine(end)
}

// tryHeading recognizes an ATX heading.
func (t *tokenizer) tryHeading(start, end int) bool {
	run := start
	for run < end && t.src[run] == '#' {
		run++
	}
	level := run - start
	if level < 1 || level > 6 {
		return false
	}
	if run < end && t.src[run] != ' ' && t.src[run] != '\t' {
		return false
	}

	t.closeParagraph()

	contentEnd := trimTrailingSpace(t.src, start, end)
	t.enter(NameHeadingATX, start)
	t.enter(NameHeadingSequence, start)
	t.exit(NameHeadingSequence, run)

	content := run
	for content < end && (t.src[content] == ' ' || t.src[content] == '\t') {
		content++
	}
	if content < contentEnd {
		t.scanInline(content, contentEnd)
	}
	t.exit(NameHeadingATX, contentEnd)
	return true
}

// tryCodeFenced recognizes a fenced code block and consumes it up to and
// including its closing fence (or end of input).
func (t *tokenizer) tryCodeFenced(start, end int) bool {
	marker := t.src[start]
	run := start
	for run < end && t.src[run] == marker {
		run++
	}
	fenceLen := run - start
	if fenceLen < 3 {
		return false
	}

	// An info string on a backtick fence must not contain backticks.
	if marker == '`' && strings.IndexByte(t.src[run:end], '`') >= 0 {
		return false
	}

	t.closeParagraph()
	t.enter(NameCodeFenced, start)
	t.enter(NameCodeFenceSequence, start)
	t.exit(NameCodeFenceSequence, run)

	infoStart := run
	for infoStart < end && (t.src[infoStart] == ' ' || t.src[infoStart] == '\t') {
		infoStart++
	}
	infoEnd := trimTrailingSpace(t.src, infoStart, end)
	if infoStart < infoEnd {
		t.enter(NameCodeFenceInfo, infoStart)
		t.exit(NameCodeFenceInfo, infoEnd)
	}

	t.advanceLine(end)

	for t.pos < len(t.src) {
		lineStart := t.pos
		lineEnd := t.lineEnd(lineStart)
		line := t.src[lineStart:lineEnd]

		if closeRun := closingFenceEnd(line, marker, fenceLen); closeRun >= 0 {
			seqStart := lineStart + leadingSpaces(line)
			t.enter(NameCodeFenceSequence, seqStart)
			t.exit(NameCodeFenceSequence, lineStart+closeRun)
			t.exit(NameCodeFenced, lineStart+closeRun)
			t.advanceLine(lineEnd)
			return true
		}

		t.enter(NameCodeFlowChunk, lineStart)
		t.exit(NameCodeFlowChunk, lineEnd)
		t.advanceLine(lineEnd)
	}

	// Unclosed fence runs to end of input.
	t.exit(NameCodeFenced, len(t.src))
	return true
}

// scanCodeIndented consumes an indented code block: a run of lines indented
// by at least four columns, with interior blank lines allowed.
func (t *tokenizer) scanCodeIndented() {
	start := t.pos
	t.enter(NameCodeIndented, start)

	lastEnd := start
	for t.pos < len(t.src) {
		lineStart := t.pos
		end := t.lineEnd(lineStart)
		line := t.src[lineStart:end]

		if isBlank(line) {
			// Interior blank lines continue the block only if another
			// indented line follows.
			if !t.indentedLineFollows(end) {
				break
			}
			t.enter(NameCodeFlowChunk, end)
			t.exit(NameCodeFlowChunk, end)
			t.advanceLine(end)
			continue
		}
		if indentWidth(line) < 4 {
			break
		}

		pad := codeIndentBytes(line)
		t.enter(NameSpaceOrTab, lineStart)
		t.exit(NameSpaceOrTab, lineStart+pad)
		t.enter(NameCodeFlowChunk, lineStart+pad)
		t.exit(NameCodeFlowChunk, end)
		lastEnd = end
		t.advanceLine(end)
	}

	t.exit(NameCodeIndented, lastEnd)
}

// indentedLineFollows reports whether the next non-blank line at or after
// pos is indented by at least four columns.
func (t *tokenizer) indentedLineFollows(pos int) bool {
	for pos < len(t.src) {
		if pos < len(t.src) && t.src[pos] == '\n' {
			pos++
		}
		end := t.lineEnd(pos)
		line := t.src[pos:end]
		if !isBlank(line) {
			return indentWidth(line) >= 4
		}
		pos = end
	}
	return false
}

// tryHTMLFlow recognizes an HTML block: from a line opening with a tag-like
// construct through the next blank line (or, for comments, through the line
// containing the comment terminator).
func (t *tokenizer) tryHTMLFlow(start int) bool {
	next := start + 1
	if next >= len(t.src) {
		return false
	}
	b := t.src[next]
	if !isASCIILetter(b) && b != '!' && b != '/' && b != '?' {
		return false
	}

	comment := strings.HasPrefix(t.src[start:], "<!--")

	t.enter(NameHTMLFlow, start)
	spanEnd := t.lineEnd(start)
	t.advanceLine(spanEnd)

	if comment && strings.Contains(t.src[start:spanEnd], "-->") {
		t.exit(NameHTMLFlow, spanEnd)
		return true
	}

	for t.pos < len(t.src) {
		lineStart := t.pos
		end := t.lineEnd(lineStart)
		line := t.src[lineStart:end]
		if isBlank(line) {
			break
		}
		spanEnd = end
		t.advanceLine(end)
		if comment && strings.Contains(line, "-->") {
			break
		}
	}

	t.exit(NameHTMLFlow, spanEnd)
	return true
}

// tryDefinition recognizes a single-line link reference definition.
func (t *tokenizer) tryDefinition(start, end int) bool {
	d, ok := parseDefinition(t.src[start:end])
	if !ok {
		return false
	}

	t.enter(NameDefinition, start)
	t.enter(NameDefinitionLabelString, start+d.labelStart)
	t.exit(NameDefinitionLabelString, start+d.labelEnd)
	t.enter(NameDefinitionDestination, start+d.destStart)
	t.enter(NameDefinitionDestinationString, start+d.destStringStart)
	t.exit(NameDefinitionDestinationString, start+d.destStringEnd)
	t.exit(NameDefinitionDestination, start+d.destEnd)
	t.exit(NameDefinition, start+d.spanEnd)
	return true
}

// definition describes the byte layout of a parsed definition, with offsets
// relative to the start of the line.
type definition struct {
	labelStart, labelEnd           int
	destStart, destEnd             int
	destStringStart, destStringEnd int
	spanEnd                        int
}

// parseDefinition parses `[label]: destination` with an optional title, all
// on one line. Offsets are relative to line.
func parseDefinition(line string) (definition, bool) {
	var d definition

	if line == "" || line[0] != '[' {
		return d, false
	}

	labelEnd := strings.IndexByte(line, ']')
	if labelEnd < 0 || strings.TrimSpace(line[1:labelEnd]) == "" {
		return d, false
	}
	if labelEnd+1 >= len(line) || line[labelEnd+1] != ':' {
		return d, false
	}
	d.labelStart, d.labelEnd = 1, labelEnd

	i := labelEnd + 2
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) {
		return d, false
	}

	d.destStart = i
	if line[i] == '<' {
		close := strings.IndexByte(line[i:], '>')
		if close < 0 {
			return d, false
		}
		d.destStringStart = i + 1
		d.destStringEnd = i + close
		d.destEnd = i + close + 1
	} else {
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		d.destStringStart = i
		d.destStringEnd = j
		d.destEnd = j
	}

	// Optional title; anything else trailing disqualifies the line.
	i = d.destEnd
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i < len(line) {
		open := line[i]
		var closeByte byte
		switch open {
		case '"':
			closeByte = '"'
		case '\'':
			closeByte = '\''
		case '(':
			closeByte = ')'
		default:
			return d, false
		}
		close := strings.IndexByte(line[i+1:], closeByte)
		if close < 0 {
			return d, false
		}
		i = i + 1 + close + 1
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i < len(line) {
			return d, false
		}
	}

	d.spanEnd = trimTrailingSpace(line, 0, len(line))
	return d, true
}

// collectDefinitionLabels gathers the normalized labels of all definitions
// so that reference and shortcut links can be recognized in the main pass.
// It tracks fenced code so definition-shaped lines inside fences don't
// count, and mirrors the main pass's rule that a definition is recognized
// whenever no paragraph is open, so headings, thematic breaks and closed
// fences admit a definition on the very next line.
func collectDefinitionLabels(src string) map[string]bool {
	defined := make(map[string]bool)

	inFence := false
	var fenceMarker byte
	var fenceLen int
	paraOpen := false

	for pos := 0; pos < len(src); {
		end := len(src)
		if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
			end = pos + i
		}
		line := src[pos:end]
		trimmed := strings.TrimLeft(line, " \t")

		switch {
		case inFence:
			if closingFenceEnd(line, fenceMarker, fenceLen) >= 0 {
				inFence = false
			}
		case isBlank(line):
			paraOpen = false
		case (trimmed != "" && (trimmed[0] == '`' || trimmed[0] == '~')) && fenceRunLen(trimmed) >= 3:
			inFence = true
			fenceMarker = trimmed[0]
			fenceLen = fenceRunLen(trimmed)
			paraOpen = false
		case indentWidth(line) >= 4:
			// Indented code outside a paragraph; a lazy continuation
			// inside one. Neither opens a paragraph of its own.
		case isHeadingLine(trimmed):
			paraOpen = false
		case isThematicBreak(trimmed):
			paraOpen = false
		case !paraOpen && strings.HasPrefix(trimmed, "["):
			if d, ok := parseDefinition(trimmed); ok {
				defined[normalizeLabel(trimmed[d.labelStart:d.labelEnd])] = true
				// Further definitions may follow directly.
			} else {
				paraOpen = true
			}
		default:
			paraOpen = true
		}

		pos = end
		if pos < len(src) {
			pos++
		}
	}

	return defined
}

// isHeadingLine reports whether a line, already stripped of indentation,
// opens an ATX heading.
func isHeadingLine(line string) bool {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return false
	}
	return n == len(line) || line[n] == ' ' || line[n] == '\t'
}

func fenceRunLen(line string) int {
	if line == "" {
		return 0
	}
	marker := line[0]
	n := 0
	for n < len(line) && line[n] == marker {
		n++
	}
	return n
}

// closingFenceEnd returns the offset just past the fence run if line is a
// valid closing fence for the given marker and length, else -1.
func closingFenceEnd(line string, marker byte, fenceLen int) int {
	i := leadingSpaces(line)
	if i > 3 {
		return -1
	}
	run := i
	for run < len(line) && line[run] == marker {
		run++
	}
	if run-i < fenceLen {
		return -1
	}
	for j := run; j < len(line); j++ {
		if line[j] != ' ' && line[j] != '\t' {
			return -1
		}
	}
	return run
}

// normalizeLabel folds a link label for matching: case-folded, interior
// whitespace collapsed, outer whitespace trimmed.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// indentWidth measures the indentation of a line in columns, with tabs
// advancing to the next multiple of four.
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4 - w%4
		default:
			return w
		}
	}
	return w
}

// indentBytes returns how many leading bytes of line are indentation.
func indentBytes(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// codeIndentBytes returns how many leading bytes of an indented code line
// make up the four-column code indent.
func codeIndentBytes(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4 - w%4
		default:
			return i
		}
		if w >= 4 {
			return i + 1
		}
	}
	return len(line)
}

// isThematicBreak reports whether line is a thematic break made of the run
// marker it starts with.
func isThematicBreak(line string) bool {
	if line == "" {
		return false
	}
	marker := line[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// listMarkerWidth returns the byte width of a list item marker at the start
// of line (bullet or ordered), or 0.
func listMarkerWidth(line string) int {
	if line == "" {
		return 0
	}
	switch line[0] {
	case '-', '+', '*':
		if len(line) > 1 && (line[1] == ' ' || line[1] == '\t') {
			return 1
		}
		return 0
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i > 9 || i >= len(line) {
		return 0
	}
	if line[i] != '.' && line[i] != ')' {
		return 0
	}
	if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
		return 0
	}
	return i + 1
}

func trimTrailingSpace(s string, start, end int) int {
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return end
}
