package mdevent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/docsplice/pkg/mdevent"
)

func exitIndex(events []mdevent.Event, name mdevent.Name) int {
	for i, ev := range events {
		if ev.Kind == mdevent.Exit && ev.Name == name {
			return i
		}
	}
	return -1
}

func TestChildren(t *testing.T) {
	t.Parallel()

	src := "x [b](c) y\n"
	events := mdevent.Tokenize(src)

	link := exitIndex(events, mdevent.NameLink)
	require.GreaterOrEqual(t, link, 0)

	// Direct children come back in reverse document order.
	kids := mdevent.Children(events, link)
	require.Len(t, kids, 2)
	assert.Equal(t, mdevent.NameResource, events[kids[0]].Name)
	assert.Equal(t, mdevent.NameLabel, events[kids[1]].Name)

	// The destination is a grandchild, not a child.
	res := mdevent.Child(events, link, mdevent.NameResource)
	require.GreaterOrEqual(t, res, 0)
	assert.Equal(t, -1, mdevent.Child(events, link, mdevent.NameResourceDestination))
	assert.GreaterOrEqual(t, mdevent.Child(events, res, mdevent.NameResourceDestination), 0)
}

func TestDescendants(t *testing.T) {
	t.Parallel()

	src := "```go\na\nb\n```\n"
	events := mdevent.Tokenize(src)

	fence := exitIndex(events, mdevent.NameCodeFenced)
	require.GreaterOrEqual(t, fence, 0)

	var names []mdevent.Name
	for _, i := range mdevent.Descendants(events, fence) {
		names = append(names, events[i].Name)
	}
	assert.Equal(t, []mdevent.Name{
		mdevent.NameCodeFenceSequence,
		mdevent.NameCodeFlowChunk,
		mdevent.NameCodeFlowChunk,
		mdevent.NameCodeFenceInfo,
		mdevent.NameCodeFenceSequence,
	}, names)
}

func TestByteRange(t *testing.T) {
	t.Parallel()

	src := "## hey\n"
	events := mdevent.Tokenize(src)

	seq := exitIndex(events, mdevent.NameHeadingSequence)
	require.GreaterOrEqual(t, seq, 0)
	start, end := mdevent.ByteRange(events, seq)
	assert.Equal(t, "##", src[start:end])
}

func TestFindAnyOf(t *testing.T) {
	t.Parallel()

	src := "para\n\n# h\n\n```\nx\n```\n"
	events := mdevent.Tokenize(src)

	wanted := []mdevent.Name{mdevent.NameHeadingATX, mdevent.NameCodeFenced}

	// The search walks backwards, matching a back-to-front rewrite pass.
	first := mdevent.FindAnyOf(events, len(events), wanted)
	require.GreaterOrEqual(t, first, 0)
	assert.Equal(t, mdevent.NameCodeFenced, events[first].Name)

	second := mdevent.FindAnyOf(events, first, wanted)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, second, first)
	assert.Equal(t, mdevent.NameHeadingATX, events[second].Name)

	assert.Equal(t, -1, mdevent.FindAnyOf(events, second, wanted))
}
