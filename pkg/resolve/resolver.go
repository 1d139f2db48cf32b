// Package resolve turns opaque item ids into canonical paths and
// documentation URLs, following containment and re-export edges in the
// symbol graph.
package resolve

import (
	"slices"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/yaklabco/docsplice/pkg/itemgraph"
)

// Defaults for Options fields left zero.
const (
	DefaultRegistryBaseURL = "https://docs.example-host"
	DefaultStandardBaseURL = "https://docs.example-lang.org"
)

var defaultStandardRoots = []string{"std", "core", "alloc"}

// Options configures URL construction.
type Options struct {
	// RegistryBaseURL hosts documentation for registry packages, laid out
	// as {package}/{version}/{root}/.
	RegistryBaseURL string

	// StandardBaseURL hosts documentation for the standard roots, laid out
	// as {root}/.
	StandardBaseURL string

	// StandardRoots are root module names served from StandardBaseURL.
	StandardRoots []string

	// LinkToLatest substitutes "latest" for the version segment of
	// workspace packages.
	LinkToLatest bool
}

// Resolver resolves items of one symbol graph. It is not safe for
// concurrent use; the path memo is unguarded.
type Resolver struct {
	graph    *itemgraph.Graph
	registry itemgraph.Registry
	opts     Options

	parents map[itemgraph.ID][]itemgraph.ID
	memo    map[itemgraph.ID][]Segment
	routes  *urlkit.RouteManager
}

// New builds a resolver over graph. The registry supplies versions for
// registry URLs and may be nil when only standard roots are linked.
func New(graph *itemgraph.Graph, registry itemgraph.Registry, opts Options) *Resolver {
	if opts.RegistryBaseURL == "" {
		opts.RegistryBaseURL = DefaultRegistryBaseURL
	}
	if opts.StandardBaseURL == "" {
		opts.StandardBaseURL = DefaultStandardBaseURL
	}
	if opts.StandardRoots == nil {
		opts.StandardRoots = defaultStandardRoots
	}

	routes := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "registry",
				BaseURL: opts.RegistryBaseURL,
				Paths:   map[string]string{"package": "/:package/:version/:root"},
			},
			{
				Name:    "standard",
				BaseURL: opts.StandardBaseURL,
				Paths:   map[string]string{"package": "/:root"},
			},
		},
	})

	return &Resolver{
		graph:    graph,
		registry: registry,
		opts:     opts,
		parents:  buildParents(graph),
		memo:     make(map[itemgraph.ID][]Segment),
		routes:   routes,
	}
}

// buildParents inverts the containment edges. Candidate order is fixed by
// sorting ids so that tie-breaks are deterministic across runs.
func buildParents(graph *itemgraph.Graph) map[itemgraph.ID][]itemgraph.ID {
	ids := make([]itemgraph.ID, 0, len(graph.Index))
	for id := range graph.Index {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	parents := make(map[itemgraph.ID][]itemgraph.ID)
	for _, id := range ids {
		for _, child := range graph.Index[id].Children {
			parents[child] = append(parents[child], id)
		}
	}
	return parents
}

// ItemURL resolves an item id straight to its documentation URL.
func (r *Resolver) ItemURL(id itemgraph.ID) (string, error) {
	segs, err := r.Path(id)
	if err != nil {
		return "", err
	}
	return r.URL(segs)
}

// fragmentAnchors maps kinds documented as anchors on their parent's page.
var fragmentAnchors = map[itemgraph.Kind]string{
	itemgraph.KindField:      "structfield",
	itemgraph.KindVariant:    "variant",
	itemgraph.KindMethod:     "method",
	itemgraph.KindAssocConst: "associatedconstant",
	itemgraph.KindAssocType:  "associatedtype",
}

// pagePrefixes maps kinds documented as a page of their own to the file
// name prefix of that page.
var pagePrefixes = map[itemgraph.Kind]string{
	itemgraph.KindRecord:         "struct",
	itemgraph.KindUnion:          "union",
	itemgraph.KindEnum:           "enum",
	itemgraph.KindFunction:       "fn",
	itemgraph.KindInterface:      "trait",
	itemgraph.KindInterfaceAlias: "traitalias",
	itemgraph.KindTypeAlias:      "type",
	itemgraph.KindConstant:       "constant",
	itemgraph.KindStatic:         "static",
	itemgraph.KindForeignType:    "foreigntype",
	itemgraph.KindMacro:          "macro",
	itemgraph.KindProcMacro:      "macro",
	itemgraph.KindAttrMacro:      "attr",
	itemgraph.KindDeriveMacro:    "derive",
	itemgraph.KindBuiltin:        "primitive",
}

// URL assembles the documentation URL for a canonical path, root first.
func (r *Resolver) URL(segs []Segment) (string, error) {
	if len(segs) == 0 {
		return "", &DanglingError{}
	}

	var b strings.Builder
	base, err := r.rootURL(segs[0].Name)
	if err != nil {
		return "", err
	}
	b.WriteString(base)

	last := segs[len(segs)-1]
	pageEnd := len(segs)

	fragment, anchored := fragmentAnchors[last.Kind]
	if anchored {
		if len(segs) < 2 {
			return "", &SegmentError{Kind: last.Kind, Name: last.Name}
		}
		pageEnd--
	}

	if pageEnd >= 2 {
		for _, seg := range segs[1 : pageEnd-1] {
			if seg.Kind != itemgraph.KindModule {
				return "", &SegmentError{Kind: seg.Kind, Name: seg.Name}
			}
			b.WriteString(seg.Name)
			b.WriteByte('/')
		}
	}

	page := segs[pageEnd-1]
	switch {
	case page.Kind == itemgraph.KindModule:
		if pageEnd > 1 {
			b.WriteString(page.Name)
			b.WriteByte('/')
		}
		b.WriteString("index.html")
	default:
		prefix, ok := pagePrefixes[page.Kind]
		if !ok {
			return "", &UnlinkableError{Kind: page.Kind, Name: page.Name}
		}
		b.WriteString(prefix)
		b.WriteByte('.')
		b.WriteString(page.Name)
		b.WriteString(".html")
	}

	if anchored {
		b.WriteByte('#')
		b.WriteString(fragment)
		b.WriteByte('.')
		b.WriteString(last.Name)
	}

	return b.String(), nil
}

// rootURL builds the base URL for the first path segment, with a trailing
// slash.
func (r *Resolver) rootURL(root string) (string, error) {
	if slices.Contains(r.opts.StandardRoots, root) {
		u, err := r.routes.Group("standard").Builder("package").
			WithParam("root", root).
			Build()
		if err != nil {
			return "", err
		}
		return u + "/", nil
	}

	pkg, ok := r.registry[root]
	if !ok {
		return "", &RegistryError{Root: root}
	}
	version := pkg.Version
	if r.opts.LinkToLatest && pkg.Workspace {
		version = "latest"
	}

	u, err := r.routes.Group("registry").Builder("package").
		WithParam("package", pkg.Name).
		WithParam("version", version).
		WithParam("root", root).
		Build()
	if err != nil {
		return "", err
	}
	return u + "/", nil
}
