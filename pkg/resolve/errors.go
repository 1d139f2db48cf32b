package resolve

import (
	"fmt"
	"strings"

	"github.com/yaklabco/docsplice/pkg/itemgraph"
)

// DanglingError reports an id with no index entry, no usable parent chain,
// and no path summary to fall back on.
type DanglingError struct {
	ID itemgraph.ID
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("item %s is not reachable from the package root", e.ID)
}

// DepthError reports an ascent that exceeded the recursion limit, usually a
// containment cycle through re-exports. Path holds the segments gathered
// before the ascent gave up, leaf first.
type DepthError struct {
	ID   itemgraph.ID
	Path []string
}

func (e *DepthError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("item %s nests deeper than %d levels", e.ID, recursionLimit)
	}
	rooted := make([]string, len(e.Path))
	for i, name := range e.Path {
		rooted[len(e.Path)-1-i] = name
	}
	return fmt.Sprintf("item %s nests deeper than %d levels (reached ...::%s)",
		e.ID, recursionLimit, strings.Join(rooted, "::"))
}

// UnlinkableError reports an item kind that has no documentation page of its
// own.
type UnlinkableError struct {
	Kind itemgraph.Kind
	Name string
}

func (e *UnlinkableError) Error() string {
	return fmt.Sprintf("%s %q has no documentation page", e.Kind, e.Name)
}

// SegmentError reports a canonical path whose interior passes through an
// item that cannot appear as a URL directory, such as a field nested under
// another field.
type SegmentError struct {
	Kind itemgraph.Kind
	Name string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("path segment %q is a %s, not a module; this is a bug in docsplice, please report it at https://github.com/yaklabco/docsplice/issues",
		e.Name, e.Kind)
}

// RegistryError reports a root package missing from the registry.
type RegistryError struct {
	Root string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("package %q is not in the registry", e.Root)
}
