package resolve

import (
	"errors"
	"slices"

	"github.com/yaklabco/docsplice/pkg/itemgraph"
)

// recursionLimit bounds the parent ascent. Containment graphs with
// re-export cycles would otherwise never terminate.
const recursionLimit = 64

// Segment is one component of a canonical item path, root first. Ancestor
// segments synthesized from a path summary carry an empty ID.
type Segment struct {
	ID   itemgraph.ID
	Name string
	Kind itemgraph.Kind
}

// Path returns the canonical path of an item, from the package root down to
// the item itself. Import and impl items dissolve into their parents and
// never appear as segments.
func (r *Resolver) Path(id itemgraph.ID) ([]Segment, error) {
	return r.ascend(id, 0)
}

func (r *Resolver) ascend(id itemgraph.ID, depth int) ([]Segment, error) {
	if segs, ok := r.memo[id]; ok {
		return slices.Clone(segs), nil
	}
	if depth > recursionLimit {
		return nil, &DepthError{ID: id}
	}

	item, ok := r.graph.Index[id]
	if !ok {
		return r.summaryPath(id)
	}

	if id == r.graph.Root {
		segs := []Segment{{ID: id, Name: item.Name, Kind: itemgraph.KindModule}}
		r.memo[id] = segs
		return slices.Clone(segs), nil
	}

	best, parentSegs, err := r.bestParent(id, depth)
	if err != nil {
		// A depth overflow propagates unconditionally so the whole ascent
		// fails at once instead of re-diving through fallback paths.
		var derr *DepthError
		if errors.As(err, &derr) {
			derr.Path = append(derr.Path, item.Name)
			return nil, err
		}
		// No viable parent chain; a summary entry may still name the item.
		if segs, serr := r.summaryPath(id); serr == nil {
			return segs, nil
		}
		return nil, err
	}

	switch item.Kind {
	case itemgraph.KindImport, itemgraph.KindImpl:
		// Dissolved: the item's children sit directly under its parent.
		return parentSegs, nil
	}

	kind := item.Kind
	if kind == itemgraph.KindFunction {
		switch r.graph.Index[best].Kind {
		case itemgraph.KindImpl, itemgraph.KindInterface:
			kind = itemgraph.KindMethod
		}
	}

	segs := append(parentSegs, Segment{ID: id, Name: item.Name, Kind: kind})
	r.memo[id] = segs
	return slices.Clone(segs), nil
}

// bestParent picks the containment edge to ascend through. Non-inline
// imports lose to every other candidate; among the rest the shortest parent
// path wins, with graph order breaking ties. A depth overflow aborts the
// whole ascent: trying the remaining parents of every frame would explore a
// mutually-containing cluster branch by branch and never come back.
func (r *Resolver) bestParent(id itemgraph.ID, depth int) (itemgraph.ID, []Segment, error) {
	var (
		found     bool
		best      itemgraph.ID
		bestSegs  []Segment
		bestScore parentScore
		firstErr  error
	)

	for _, parent := range r.parents[id] {
		segs, err := r.ascend(parent, depth+1)
		if err != nil {
			var derr *DepthError
			if errors.As(err, &derr) {
				return "", nil, err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		score := parentScore{
			nonInlineImport: r.isNonInlineImport(parent),
			length:          len(segs),
		}
		if !found || score.beats(bestScore) {
			found = true
			best = parent
			bestSegs = segs
			bestScore = score
		}
	}

	if !found {
		if firstErr == nil {
			firstErr = &DanglingError{ID: id}
		}
		return "", nil, firstErr
	}
	return best, bestSegs, nil
}

type parentScore struct {
	nonInlineImport bool
	length          int
}

func (s parentScore) beats(other parentScore) bool {
	if s.nonInlineImport != other.nonInlineImport {
		return !s.nonInlineImport
	}
	return s.length < other.length
}

func (r *Resolver) isNonInlineImport(id itemgraph.ID) bool {
	item, ok := r.graph.Index[id]
	return ok && item.Kind == itemgraph.KindImport && !item.Inline
}

// summaryPath synthesizes segments from the dump's path summary table.
// Ancestors there are recorded as bare names and are assumed to be modules.
func (r *Resolver) summaryPath(id itemgraph.ID) ([]Segment, error) {
	sum, ok := r.graph.Paths[id]
	if !ok || len(sum.Path) == 0 {
		return nil, &DanglingError{ID: id}
	}

	segs := make([]Segment, len(sum.Path))
	for i, name := range sum.Path {
		segs[i] = Segment{Name: name, Kind: itemgraph.KindModule}
	}
	segs[len(segs)-1] = Segment{ID: id, Name: sum.Path[len(sum.Path)-1], Kind: sum.Kind}
	return segs, nil
}
