package mdevent

import "strings"

// scanInline tokenizes the inline content of src[start:end]. Constructs that
// fail to parse contribute their bytes to the surrounding text run instead.
func (t *tokenizer) scanInline(start, end int) {
	pos := start
	textStart := start

	flush := func(upTo int) {
		if textStart < upTo {
			t.enter(NameText, textStart)
			t.exit(NameText, upTo)
		}
	}

	for pos < end {
		switch t.src[pos] {
		case '\\':
			if pos+1 < end && isASCIIPunct(t.src[pos+1]) {
				flush(pos)
				t.enter(NameCharacterEscape, pos)
				t.exit(NameCharacterEscape, pos+2)
				pos += 2
				textStart = pos
				continue
			}
			pos++

		case '`':
			spanEnd, ok := t.scanCodeSpan(pos, end)
			if ok {
				flush(pos)
				t.enter(NameCodeText, pos)
				t.exit(NameCodeText, spanEnd)
				pos = spanEnd
				textStart = pos
				continue
			}
			// Skip past the whole backtick run so it stays literal.
			pos = spanEnd

		case '<':
			if spanEnd, ok := t.scanAutolink(pos, end); ok {
				flush(pos)
				t.enter(NameAutolink, pos)
				t.exit(NameAutolink, spanEnd)
				pos = spanEnd
				textStart = pos
				continue
			}
			if spanEnd, ok := t.scanHTMLText(pos, end); ok {
				flush(pos)
				t.enter(NameHTMLText, pos)
				t.exit(NameHTMLText, spanEnd)
				pos = spanEnd
				textStart = pos
				continue
			}
			pos++

		case '[':
			if spanEnd, ok := t.scanLink(pos, end, NameLink); ok {
				flush(pos)
				t.flushLink()
				pos = spanEnd
				textStart = pos
				continue
			}
			pos++

		case '!':
			if pos+1 < end && t.src[pos+1] == '[' {
				if spanEnd, ok := t.scanLink(pos, end, NameImage); ok {
					flush(pos)
					t.flushLink()
					pos = spanEnd
					textStart = pos
					continue
				}
			}
			pos++

		default:
			pos++
		}
	}

	flush(end)
}

// flushLink commits the staged events of a successfully parsed bracket
// construct to the stream.
func (t *tokenizer) flushLink() {
	t.events = append(t.events, t.pendingLink...)
	t.pendingLink = t.pendingLink[:0]
}

func (t *tokenizer) pendEnter(name Name, offset int) {
	t.pendingLink = append(t.pendingLink, Event{Kind: Enter, Name: name, Offset: offset})
}

func (t *tokenizer) pendExit(name Name, offset int) {
	t.pendingLink = append(t.pendingLink, Event{Kind: Exit, Name: name, Offset: offset})
}

// scanCodeSpan matches a code span starting at the backtick run at pos. On
// failure it returns the end of the opening run with ok false.
func (t *tokenizer) scanCodeSpan(pos, end int) (int, bool) {
	runEnd := pos
	for runEnd < end && t.src[runEnd] == '`' {
		runEnd++
	}
	runLen := runEnd - pos

	i := runEnd
	for i < end {
		if t.src[i] != '`' {
			i++
			continue
		}
		closeEnd := i
		for closeEnd < end && t.src[closeEnd] == '`' {
			closeEnd++
		}
		if closeEnd-i == runLen {
			return closeEnd, true
		}
		i = closeEnd
	}
	return runEnd, false
}

// scanAutolink matches <scheme:...> and <addr@host> forms.
func (t *tokenizer) scanAutolink(pos, end int) (int, bool) {
	close := strings.IndexByte(t.src[pos:end], '>')
	if close < 1 {
		return 0, false
	}
	inner := t.src[pos+1 : pos+close]
	if inner == "" || strings.ContainsAny(inner, " \t<") {
		return 0, false
	}
	if isAutolinkURI(inner) || isAutolinkEmail(inner) {
		return pos + close + 1, true
	}
	return 0, false
}

func isAutolinkURI(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 2 || colon > 32 {
		return false
	}
	if !isASCIILetter(s[0]) {
		return false
	}
	for i := 1; i < colon; i++ {
		b := s[i]
		if !isASCIILetter(b) && !(b >= '0' && b <= '9') && b != '+' && b != '.' && b != '-' {
			return false
		}
	}
	return true
}

func isAutolinkEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && strings.IndexByte(s[at+1:], '@') < 0 &&
		strings.IndexByte(s[at+1:], '.') > 0
}

// scanHTMLText matches a single tag-like construct on one line.
func (t *tokenizer) scanHTMLText(pos, end int) (int, bool) {
	if pos+1 >= end {
		return 0, false
	}
	b := t.src[pos+1]
	if !isASCIILetter(b) && b != '/' && b != '!' && b != '?' {
		return 0, false
	}
	close := strings.IndexByte(t.src[pos:end], '>')
	if close < 0 {
		return 0, false
	}
	return pos + close + 1, true
}

// scanLink matches a link or image at pos. The construct's events are staged
// on t.pendingLink; the caller appends them on success.
func (t *tokenizer) scanLink(pos, end int, name Name) (int, bool) {
	t.pendingLink = t.pendingLink[:0]

	open := pos
	if name == NameImage {
		open = pos + 1
	}

	labelEnd, ok := t.matchLabel(open, end)
	if !ok {
		return 0, false
	}
	labelText := t.src[open+1 : labelEnd]

	emitLabel := func() {
		t.pendEnter(name, pos)
		t.pendEnter(NameLabel, open)
		t.pendEnter(NameLabelText, open+1)
		t.pendExit(NameLabelText, labelEnd)
		t.pendExit(NameLabel, labelEnd+1)
	}

	after := labelEnd + 1
	if after < end && t.src[after] == '(' {
		spanEnd, res, ok := t.matchResource(after, end)
		if ok {
			emitLabel()
			t.pendEnter(NameResource, after)
			t.pendEnter(NameResourceDestination, res.destStart)
			t.pendEnter(NameResourceDestinationString, res.destStringStart)
			t.pendExit(NameResourceDestinationString, res.destStringEnd)
			t.pendExit(NameResourceDestination, res.destEnd)
			t.pendExit(NameResource, spanEnd)
			t.pendExit(name, spanEnd)
			return spanEnd, true
		}
	}

	if after < end && t.src[after] == '[' {
		refClose := strings.IndexByte(t.src[after:end], ']')
		if refClose > 0 {
			refEnd := after + refClose
			identifier := t.src[after+1 : refEnd]
			full := identifier != ""
			if !full {
				identifier = labelText
			}
			if t.defined[normalizeLabel(identifier)] {
				emitLabel()
				t.pendEnter(NameReference, after)
				if full {
					t.pendEnter(NameReferenceString, after+1)
					t.pendExit(NameReferenceString, refEnd)
				}
				t.pendExit(NameReference, refEnd+1)
				t.pendExit(name, refEnd+1)
				return refEnd + 1, true
			}
		}
		return 0, false
	}

	// Shortcut form.
	if t.defined[normalizeLabel(labelText)] {
		emitLabel()
		t.pendExit(name, labelEnd+1)
		return labelEnd + 1, true
	}
	return 0, false
}

// matchLabel finds the ']' closing the bracket at open, honoring escapes,
// nested brackets, and code spans.
func (t *tokenizer) matchLabel(open, end int) (int, bool) {
	depth := 1
	i := open + 1
	for i < end {
		switch t.src[i] {
		case '\\':
			i += 2
		case '`':
			spanEnd, _ := t.scanCodeSpan(i, end)
			i = spanEnd
		case '[':
			depth++
			i++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
			i++
		default:
			i++
		}
	}
	return 0, false
}

// resourceSpan holds byte offsets of a parsed inline resource.
type resourceSpan struct {
	destStart, destEnd             int
	destStringStart, destStringEnd int
}

// matchResource parses `(destination "title")` starting at the opening
// parenthesis.
func (t *tokenizer) matchResource(open, end int) (int, resourceSpan, bool) {
	var res resourceSpan

	i := open + 1
	for i < end && (t.src[i] == ' ' || t.src[i] == '\t') {
		i++
	}
	if i >= end {
		return 0, res, false
	}

	res.destStart = i
	switch t.src[i] {
	case '<':
		close := strings.IndexByte(t.src[i:end], '>')
		if close < 0 {
			return 0, res, false
		}
		res.destStringStart = i + 1
		res.destStringEnd = i + close
		res.destEnd = i + close + 1
		i = res.destEnd
	case ')':
		// Empty destination.
		res.destStringStart = i
		res.destStringEnd = i
		res.destEnd = i
	default:
		depth := 0
		j := i
	scan:
		for j < end {
			switch t.src[j] {
			case '\\':
				j += 2
				continue
			case '(':
				depth++
			case ')':
				if depth == 0 {
					break scan
				}
				depth--
			case ' ', '\t':
				break scan
			}
			j++
		}
		res.destStringStart = i
		res.destStringEnd = j
		res.destEnd = j
		i = j
	}

	for i < end && (t.src[i] == ' ' || t.src[i] == '\t') {
		i++
	}
	if i < end {
		switch t.src[i] {
		case '"', '\'':
			close := strings.IndexByte(t.src[i+1:end], t.src[i])
			if close < 0 {
				return 0, res, false
			}
			i = i + 1 + close + 1
		case '(':
			close := strings.IndexByte(t.src[i+1:end], ')')
			if close < 0 {
				return 0, res, false
			}
			i = i + 1 + close + 1
		}
	}
	for i < end && (t.src[i] == ' ' || t.src[i] == '\t') {
		i++
	}
	if i >= end || t.src[i] != ')' {
		return 0, res, false
	}
	return i + 1, res, true
}

func isASCIIPunct(b byte) bool {
	return (b >= '!' && b <= '/') || (b >= ':' && b <= '@') ||
		(b >= '[' && b <= '`') || (b >= '{' && b <= '~')
}
