// Package itemgraph models the symbol graph dump produced by the
// documentation toolchain: a flat index of items keyed by opaque id, plus
// the containment edges and doc-link tables hanging off each item.
package itemgraph

// ID is an opaque item identifier. IDs are only meaningful within the dump
// they came from.
type ID string

// Kind classifies an item in the graph.
type Kind string

const (
	KindModule         Kind = "module"
	KindExternPackage  Kind = "extern-package"
	KindImport         Kind = "import"
	KindUnion          Kind = "union"
	KindRecord         Kind = "record"
	KindField          Kind = "field"
	KindEnum           Kind = "enum"
	KindVariant        Kind = "variant"
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindInterface      Kind = "interface"
	KindInterfaceAlias Kind = "interface-alias"
	KindImpl           Kind = "impl"
	KindTypeAlias      Kind = "type-alias"
	KindConstant       Kind = "constant"
	KindStatic         Kind = "static"
	KindForeignType    Kind = "foreign-type"
	KindMacro          Kind = "macro"
	KindProcMacro      Kind = "proc-macro"
	KindAttrMacro      Kind = "attr-macro"
	KindDeriveMacro    Kind = "derive-macro"
	KindBuiltin        Kind = "builtin"
	KindAssocConst     Kind = "assoc-const"
	KindAssocType      Kind = "assoc-type"
	KindKeyword        Kind = "keyword"
)

// Item is one node of the graph. Impl blocks carry an empty Name.
type Item struct {
	Name     string        `json:"name"`
	Kind     Kind          `json:"kind"`
	Children []ID          `json:"children,omitempty"`
	Inline   bool          `json:"inline,omitempty"`
	Docs     string        `json:"docs,omitempty"`
	Links    map[string]ID `json:"links,omitempty"`
}

// Graph is a decoded symbol graph dump.
type Graph struct {
	FormatVersion int            `json:"format_version"`
	Root          ID             `json:"root"`
	Index         map[ID]Item    `json:"index"`
	Paths         map[ID]Summary `json:"paths,omitempty"`
}

// Summary is the fallback record kept for items that are reachable but not
// fully indexed, typically items re-exported from other packages.
type Summary struct {
	Kind Kind     `json:"kind"`
	Path []string `json:"path"`
}

// Item looks up an item by id.
func (g *Graph) Item(id ID) (Item, bool) {
	item, ok := g.Index[id]
	return item, ok
}

// RootItem returns the root module of the dump.
func (g *Graph) RootItem() Item {
	return g.Index[g.Root]
}

// Package identifies a documented package for URL construction.
type Package struct {
	Name      string
	Version   string
	Workspace bool
}

// Registry maps root module names to the packages providing them. The
// resolver consults it for the version segment of registry URLs.
type Registry map[string]Package
