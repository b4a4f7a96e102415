package providers

import (
	"context"
	"fmt"
	"log/slog"
)

// mapPage is one node of a provider's resource-map graph: the resources
// listed directly on the map plus the ids of any nested maps.
type mapPage struct {
	resources map[int][]AvailabilityEntry
	childMaps []int
}

// mapQuerier fetches a single map node. The graph is walked lazily, one
// upstream query per node, rather than held in memory as a whole.
type mapQuerier func(ctx context.Context, mapID int) (mapPage, error)

// resolveResourceGraph walks the map graph rooted at mapID depth-first and
// accumulates per-resource availability. A resource appearing on more than
// one branch keeps its first-seen entries; conflicting duplicates are logged,
// never silently merged. A child map already explored on a sibling branch is
// skipped. A child map already on the current descent chain means the
// provider handed back a cycle and resolution aborts with
// ErrCyclicResourceGraph.
func resolveResourceGraph(ctx context.Context, mapID int, query mapQuerier) (map[int][]AvailabilityEntry, error) {
	w := &graphWalk{
		query:   query,
		results: map[int][]AvailabilityEntry{},
		visited: map[int]bool{},
		onPath:  map[int]bool{},
	}
	if err := w.descend(ctx, mapID); err != nil {
		return nil, err
	}
	return w.results, nil
}

// graphWalk is the per-call state of one resolution. Nothing here is shared
// between call trees, so concurrent resolutions of different facilities need
// no coordination.
type graphWalk struct {
	query   mapQuerier
	results map[int][]AvailabilityEntry
	visited map[int]bool
	onPath  map[int]bool
}

func (w *graphWalk) descend(ctx context.Context, mapID int) error {
	if w.onPath[mapID] {
		return fmt.Errorf("%w: map %d is reachable from itself", ErrCyclicResourceGraph, mapID)
	}
	if w.visited[mapID] {
		return nil
	}
	w.onPath[mapID] = true
	defer delete(w.onPath, mapID)
	w.visited[mapID] = true

	page, err := w.query(ctx, mapID)
	if err != nil {
		return err
	}
	for id, entries := range page.resources {
		w.merge(id, entries)
	}
	for _, child := range page.childMaps {
		if err := w.descend(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// merge records a resource's entries, first occurrence wins. The platform is
// not supposed to list one resource with different availability on two
// branches; if it ever does, keep the first copy and say so.
func (w *graphWalk) merge(id int, entries []AvailabilityEntry) {
	existing, seen := w.results[id]
	if !seen {
		w.results[id] = entries
		return
	}
	if !sameEntries(existing, entries) {
		slog.Warn("resource listed with conflicting availability on two map branches, keeping first",
			slog.Int("resource", id))
	}
}

func sameEntries(a, b []AvailabilityEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
