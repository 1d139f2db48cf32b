package itemgraph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/docsplice/pkg/itemgraph"
)

const validDump = `{
	"format_version": 2,
	"root": "0",
	"index": {
		"0": {"name": "examplepkg", "kind": "module", "children": ["1", "2"]},
		"1": {"name": "Widget", "kind": "record", "children": ["3"],
			"docs": "A [Widget].", "links": {"Widget": "1"}},
		"2": {"name": "open", "kind": "function"},
		"3": {"name": "size", "kind": "field"}
	},
	"paths": {
		"1": {"kind": "record", "path": ["examplepkg", "Widget"]}
	}
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	g, err := itemgraph.Decode([]byte(validDump))
	require.NoError(t, err)

	assert.Equal(t, itemgraph.ID("0"), g.Root)
	assert.Equal(t, "examplepkg", g.RootItem().Name)

	widget, ok := g.Item("1")
	require.True(t, ok)
	assert.Equal(t, itemgraph.KindRecord, widget.Kind)
	assert.Equal(t, []itemgraph.ID{"3"}, widget.Children)
	assert.Equal(t, itemgraph.ID("1"), widget.Links["Widget"])

	require.Contains(t, g.Paths, itemgraph.ID("1"))
	assert.Equal(t, []string{"examplepkg", "Widget"}, g.Paths["1"].Path)
}

func TestDecodeRejectsVersionSkew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  int
		wantHint string
	}{
		{"newer dump", itemgraph.SupportedFormatVersion + 3, "update docsplice"},
		{"older dump", itemgraph.SupportedFormatVersion - 1, "newer toolchain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dump := fmt.Sprintf(`{"format_version": %d, "root": "0", "index": {}}`, tt.version)
			_, err := itemgraph.Decode([]byte(dump))

			var verr *itemgraph.FormatVersionError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.version, verr.Found)
			assert.Contains(t, err.Error(), tt.wantHint)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dump string
		want string
	}{
		{"not json", `{`, "decode symbol graph"},
		{"missing version", `{"root": "0", "index": {}}`, "missing format_version"},
		{
			"bad kind",
			`{"format_version": 2, "root": "0",
				"index": {"0": {"name": "x", "kind": "gizmo"}}}`,
			"does not match schema",
		},
		{
			"missing name",
			`{"format_version": 2, "root": "0",
				"index": {"0": {"kind": "module"}}}`,
			"does not match schema",
		},
		{
			"dangling root",
			`{"format_version": 2, "root": "9",
				"index": {"0": {"name": "x", "kind": "module"}}}`,
			"not in the index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := itemgraph.Decode([]byte(tt.dump))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
