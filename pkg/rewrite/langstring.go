package rewrite

import (
	"fmt"
	"strings"
)

// Fence info strings carry more than a language name: comma or space
// separated tags, quoted tokens, `{.class key=value}` attribute blocks and
// `(comment)` blocks. scanInfoString tokenizes that grammar; malformed input
// produces collected errors and a best-effort token list.

type infoTokenKind int

const (
	infoLang infoTokenKind = iota
	infoClass
	infoKeyValue
)

type infoToken struct {
	kind  infoTokenKind
	text  string
	key   string
	value string
}

type infoScanner struct {
	data        string
	pos         int
	inAttrBlock bool
	errs        []string
	failed      bool
}

func scanInfoString(info string) ([]infoToken, []string) {
	s := &infoScanner{data: info}
	var tokens []infoToken
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, s.errs
}

func isLeadingChar(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isBarewordChar(c byte) bool {
	return isLeadingChar(c) || strings.IndexByte(".!#$%&*+/;<>?@^|~", c) >= 0
}

func isInfoSeparator(c byte) bool {
	return c == ' ' || c == ',' || c == '\t'
}

func (s *infoScanner) errorf(format string, args ...any) {
	s.errs = append(s.errs, "invalid codeblock attribute: "+fmt.Sprintf(format, args...))
	s.failed = true
}

func (s *infoScanner) peek() (byte, bool) {
	if s.pos < len(s.data) {
		return s.data[s.pos], true
	}
	return 0, false
}

func (s *infoScanner) skipSeparators() bool {
	for s.pos < len(s.data) {
		if !isInfoSeparator(s.data[s.pos]) {
			return true
		}
		s.pos++
	}
	return false
}

func (s *infoScanner) next() (infoToken, bool) {
	if s.failed {
		return infoToken{}, false
	}
	if !s.skipSeparators() {
		if s.inAttrBlock {
			s.errorf("unclosed attribute block (`{}`): missing `}` at the end")
		}
		return infoToken{}, false
	}
	if s.inAttrBlock {
		return s.parseInAttrBlock()
	}
	return s.parseOutsideAttrBlock(s.pos)
}

// parseString scans a quoted token; start is the position of the opening
// quote.
func (s *infoScanner) parseString(start int) (string, bool) {
	for i := start + 1; i < len(s.data); i++ {
		if s.data[i] == '"' {
			s.pos = i + 1
			return s.data[start+1 : i], true
		}
	}
	s.pos = len(s.data)
	s.errorf("unclosed quote string `\"`")
	return "", false
}

// parseBareword scans a bareword starting at start, whose leading character
// was already validated.
func (s *infoScanner) parseBareword(start int) string {
	i := start + 1
	for i < len(s.data) && isBarewordChar(s.data[i]) {
		i++
	}
	s.pos = i
	return s.data[start:i]
}

// checkAfterToken validates the character terminating a token inside an
// attribute block.
func (s *infoScanner) checkAfterToken() bool {
	c, ok := s.peek()
	if !ok {
		return true
	}
	if c == '}' || c == '(' || isInfoSeparator(c) {
		return true
	}
	s.errorf("unexpected `%c` character", c)
	return false
}

func (s *infoScanner) parseInAttrBlock() (infoToken, bool) {
	c, ok := s.peek()
	if !ok {
		s.errorf("unclosed attribute block (`{}`): missing `}` at the end")
		return infoToken{}, false
	}
	switch {
	case c == '}':
		s.pos++
		s.inAttrBlock = false
		return s.next()
	case c == '.':
		s.pos++
		start := s.pos
		for s.pos < len(s.data) && isBarewordChar(s.data[s.pos]) {
			s.pos++
		}
		class := s.data[start:s.pos]
		if class == "" {
			if c, ok := s.peek(); ok {
				s.errorf("unexpected `%c` character after `.`", c)
			} else {
				s.errorf("missing character after `.`")
			}
			return infoToken{}, false
		}
		if !s.checkAfterToken() {
			return infoToken{}, false
		}
		return infoToken{kind: infoClass, text: class}, true
	case c == '"' || isLeadingChar(c):
		return s.parseKeyValue(c)
	default:
		s.errorf("unexpected character `%c`", c)
		return infoToken{}, false
	}
}

func (s *infoScanner) parseKeyValue(c byte) (infoToken, bool) {
	var key string
	if c == '"' {
		quoted, ok := s.parseString(s.pos)
		if !ok {
			return infoToken{}, false
		}
		key = quoted
	} else {
		key = s.parseBareword(s.pos)
	}
	if key == "" {
		s.errorf("unexpected empty string as key")
		return infoToken{}, false
	}

	eq, ok := s.peek()
	if !ok {
		s.errorf("unexpected end")
		return infoToken{}, false
	}
	if eq != '=' {
		s.errorf("expected `=`, found `%c`", eq)
		return infoToken{}, false
	}
	s.pos++

	vc, ok := s.peek()
	if !ok {
		s.errorf("expected value after `=`")
		return infoToken{}, false
	}
	var value string
	switch {
	case vc == '"':
		value, ok = s.parseString(s.pos)
		if !ok {
			return infoToken{}, false
		}
	case isBarewordChar(vc):
		value = s.parseBareword(s.pos)
	default:
		s.errorf("unexpected `%c` character after `=`", vc)
		return infoToken{}, false
	}
	if value == "" {
		s.errorf("unexpected empty string as value")
		return infoToken{}, false
	}
	if !s.checkAfterToken() {
		return infoToken{}, false
	}
	return infoToken{kind: infoKeyValue, key: key, value: value}, true
}

// skipParenBlock consumes a comment through its closing parenthesis.
func (s *infoScanner) skipParenBlock() bool {
	for s.pos < len(s.data) {
		if s.data[s.pos] == ')' {
			s.pos++
			return true
		}
		s.pos++
	}
	s.errorf("unclosed comment: missing `)` at the end")
	return false
}

func (s *infoScanner) parseOutsideAttrBlock(start int) (infoToken, bool) {
	for s.pos < len(s.data) {
		pos := s.pos
		c := s.data[pos]
		switch {
		case c == '"':
			if pos != start {
				s.errorf("expected ` `, `{` or `,` found `\"`")
				return infoToken{}, false
			}
			quoted, ok := s.parseString(pos)
			if !ok {
				return infoToken{}, false
			}
			if next, ok := s.peek(); ok && next != '{' && next != '(' && !isInfoSeparator(next) {
				s.errorf("expected ` `, `{` or `,` after `\"`, found `%c`", next)
				return infoToken{}, false
			}
			return infoToken{kind: infoLang, text: quoted}, true
		case c == '{':
			s.pos++
			s.inAttrBlock = true
			return s.next()
		case isInfoSeparator(c):
			if pos != start {
				s.pos++
				return infoToken{kind: infoLang, text: s.data[start:pos]}, true
			}
			s.pos++
			return s.next()
		case c == '(':
			s.pos++
			if !s.skipParenBlock() {
				return infoToken{}, false
			}
			if pos != start {
				return infoToken{kind: infoLang, text: s.data[start:pos]}, true
			}
			return s.next()
		case (pos == start && isLeadingChar(c)) || (pos != start && isBarewordChar(c)):
			s.pos++
		default:
			s.errorf("unexpected character `%c`", c)
			return infoToken{}, false
		}
	}
	if start == len(s.data) {
		return infoToken{}, false
	}
	return infoToken{kind: infoLang, text: s.data[start:]}, true
}

// fenceLanguage extracts the leading language token of a fence info string,
// along with any grammar errors found while scanning it.
func fenceLanguage(info string) (string, []string) {
	tokens, errs := scanInfoString(info)
	for _, tok := range tokens {
		if tok.kind == infoLang {
			return tok.text, errs
		}
	}
	return "", errs
}
