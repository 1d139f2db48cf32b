// Package mdevent tokenizes Markdown into a flat, ordered stream of
// Enter/Exit events. Each event carries a construct name and a byte offset;
// a paired Enter and Exit bound one construct's span, and spans are strictly
// nested. The tokenizer is total: malformed input degrades to literal text,
// it never fails.
//
// The flat event representation (rather than a node tree) is what makes the
// rewrite engine's exit-only, reverse-order traversal correct without parent
// back-pointers.
package mdevent

// Kind distinguishes the two halves of a construct span.
type Kind uint8

const (
	Enter Kind = iota
	Exit
)

// String returns "enter" or "exit".
func (k Kind) String() string {
	if k == Enter {
		return "enter"
	}
	return "exit"
}

// Name identifies a construct recognized by the tokenizer.
type Name uint8

const (
	NameText Name = iota
	NameParagraph
	NameHeadingATX
	NameHeadingSequence
	NameThematicBreak
	NameBlockQuoteMarker
	NameListItemMarker
	NameCodeFenced
	NameCodeFenceSequence
	NameCodeFenceInfo
	NameCodeIndented
	NameCodeFlowChunk
	NameSpaceOrTab
	NameHTMLFlow
	NameHTMLText
	NameDefinition
	NameDefinitionLabelString
	NameDefinitionDestination
	NameDefinitionDestinationString
	NameLink
	NameImage
	NameLabel
	NameLabelText
	NameResource
	NameResourceDestination
	NameResourceDestinationString
	NameReference
	NameReferenceString
	NameAutolink
	NameCodeText
	NameCharacterEscape
)

var names = [...]string{
	NameText:                        "text",
	NameParagraph:                   "paragraph",
	NameHeadingATX:                  "headingATX",
	NameHeadingSequence:             "headingSequence",
	NameThematicBreak:               "thematicBreak",
	NameBlockQuoteMarker:            "blockQuoteMarker",
	NameListItemMarker:              "listItemMarker",
	NameCodeFenced:                  "codeFenced",
	NameCodeFenceSequence:           "codeFenceSequence",
	NameCodeFenceInfo:               "codeFenceInfo",
	NameCodeIndented:                "codeIndented",
	NameCodeFlowChunk:               "codeFlowChunk",
	NameSpaceOrTab:                  "spaceOrTab",
	NameHTMLFlow:                    "htmlFlow",
	NameHTMLText:                    "htmlText",
	NameDefinition:                  "definition",
	NameDefinitionLabelString:       "definitionLabelString",
	NameDefinitionDestination:       "definitionDestination",
	NameDefinitionDestinationString: "definitionDestinationString",
	NameLink:                        "link",
	NameImage:                       "image",
	NameLabel:                       "label",
	NameLabelText:                   "labelText",
	NameResource:                    "resource",
	NameResourceDestination:         "resourceDestination",
	NameResourceDestinationString:   "resourceDestinationString",
	NameReference:                   "reference",
	NameReferenceString:             "referenceString",
	NameAutolink:                    "autolink",
	NameCodeText:                    "codeText",
	NameCharacterEscape:             "characterEscape",
}

// String returns a stable lower-camel name for the construct.
func (n Name) String() string {
	if int(n) < len(names) {
		return names[n]
	}
	return "unknown"
}

// Event is one half of a construct span.
type Event struct {
	Kind   Kind
	Name   Name
	Offset int
}

// ByteRange returns the [start, end) byte span of the construct whose Exit
// event sits at exitIndex. Constructs of the same name never nest in this
// grammar, so the nearest preceding Enter with the same name is the pair.
func ByteRange(events []Event, exitIndex int) (start, end int) {
	exit := events[exitIndex]
	for i := exitIndex - 1; i >= 0; i-- {
		if events[i].Kind == Enter && events[i].Name == exit.Name {
			return events[i].Offset, exit.Offset
		}
	}
	// Unreachable for streams produced by Tokenize.
	return exit.Offset, exit.Offset
}

// Children returns the Exit indices of the direct children of the construct
// exiting at exitIndex, in reverse document order.
func Children(events []Event, exitIndex int) []int {
	var out []int
	depth := 0

	for i := exitIndex - 1; i >= 0; i-- {
		if depth == 0 && events[i].Kind == Enter {
			break
		}
		switch events[i].Kind {
		case Enter:
			depth--
		case Exit:
			depth++
		}
		if depth == 1 && events[i].Kind == Exit {
			out = append(out, i)
		}
	}

	return out
}

// Child returns the Exit index of the first direct child with the given
// name, or -1.
func Child(events []Event, exitIndex int, name Name) int {
	for _, i := range Children(events, exitIndex) {
		if events[i].Name == name {
			return i
		}
	}
	return -1
}

// Descendant returns the Exit index of the nearest descendant with the given
// name, or -1. "Nearest" follows reverse document order, matching the
// reverse traversal the rewrite engine performs.
func Descendant(events []Event, exitIndex int, name Name) int {
	for _, i := range Descendants(events, exitIndex) {
		if events[i].Name == name {
			return i
		}
	}
	return -1
}

// Descendants returns the Exit indices of all descendants of the construct
// exiting at exitIndex, in reverse document order.
func Descendants(events []Event, exitIndex int) []int {
	var out []int
	depth := 0

	for i := exitIndex - 1; i >= 0; i-- {
		if depth == 0 && events[i].Kind == Enter {
			break
		}
		switch events[i].Kind {
		case Enter:
			depth--
		case Exit:
			depth++
		}
		if events[i].Kind == Exit {
			out = append(out, i)
		}
	}

	return out
}

// FindAnyOf returns the largest index below start holding an Exit event for
// one of the given names, or -1.
func FindAnyOf(events []Event, start int, wanted []Name) int {
	for i := start - 1; i >= 0; i-- {
		if events[i].Kind != Exit {
			continue
		}
		for _, name := range wanted {
			if events[i].Name == name {
				return i
			}
		}
	}
	return -1
}
