package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func entries(resourceID int, statuses ...int) []AvailabilityEntry {
	start := day("2025-07-04")
	out := make([]AvailabilityEntry, 0, len(statuses))
	for i, st := range statuses {
		out = append(out, AvailabilityEntry{ResourceID: resourceID, Day: start.AddDate(0, 0, i), StatusCode: st})
	}
	return out
}

// fakeGraph serves mapPage nodes from a static adjacency table and counts
// queries per map id.
type fakeGraph struct {
	pages   map[int]mapPage
	queries map[int]int
}

func (f *fakeGraph) query(_ context.Context, mapID int) (mapPage, error) {
	if f.queries == nil {
		f.queries = map[int]int{}
	}
	f.queries[mapID]++
	page, ok := f.pages[mapID]
	if !ok {
		return mapPage{}, errors.New("unknown map")
	}
	return page, nil
}

func TestResolveResourceGraph_NestedChildMaps(t *testing.T) {
	g := &fakeGraph{pages: map[int]mapPage{
		10: {
			resources: map[int][]AvailabilityEntry{
				1: entries(1, 0, 0),
				2: entries(2, 0, 0),
			},
			childMaps: []int{11},
		},
		11: {
			resources: map[int][]AvailabilityEntry{3: entries(3, 0, 0)},
		},
	}}

	got, err := resolveResourceGraph(context.Background(), 10, g.query)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 resources, got %d", len(got))
	}
	for _, id := range []int{1, 2, 3} {
		if len(got[id]) != 2 {
			t.Errorf("resource %d: want 2 entries, got %d", id, len(got[id]))
		}
	}
}

func TestResolveResourceGraph_FirstOccurrenceWins(t *testing.T) {
	conflicting := entries(1, 1, 1)
	g := &fakeGraph{pages: map[int]mapPage{
		10: {
			resources: map[int][]AvailabilityEntry{1: entries(1, 0, 0)},
			childMaps: []int{11},
		},
		11: {
			resources: map[int][]AvailabilityEntry{1: conflicting},
		},
	}}

	got, err := resolveResourceGraph(context.Background(), 10, g.query)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 resource, got %d", len(got))
	}
	if got[1][0].StatusCode != 0 {
		t.Fatalf("duplicate from later branch overwrote first occurrence")
	}
}

func TestResolveResourceGraph_SharedChildQueriedOnce(t *testing.T) {
	// Diamond: 10 -> 11, 10 -> 12, both 11 and 12 -> 13.
	g := &fakeGraph{pages: map[int]mapPage{
		10: {childMaps: []int{11, 12}},
		11: {childMaps: []int{13}},
		12: {childMaps: []int{13}},
		13: {resources: map[int][]AvailabilityEntry{5: entries(5, 0)}},
	}}

	got, err := resolveResourceGraph(context.Background(), 10, g.query)
	if err != nil {
		t.Fatalf("diamond graph is not a cycle: %v", err)
	}
	if g.queries[13] != 1 {
		t.Fatalf("shared child queried %d times, want 1", g.queries[13])
	}
	if len(got) != 1 || len(got[5]) != 1 {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestResolveResourceGraph_CycleDetected(t *testing.T) {
	g := &fakeGraph{pages: map[int]mapPage{
		10: {childMaps: []int{11}},
		11: {childMaps: []int{10}},
	}}

	_, err := resolveResourceGraph(context.Background(), 10, g.query)
	if !errors.Is(err, ErrCyclicResourceGraph) {
		t.Fatalf("want ErrCyclicResourceGraph, got %v", err)
	}
}

func TestResolveResourceGraph_SelfReference(t *testing.T) {
	g := &fakeGraph{pages: map[int]mapPage{
		10: {childMaps: []int{10}},
	}}

	_, err := resolveResourceGraph(context.Background(), 10, g.query)
	if !errors.Is(err, ErrCyclicResourceGraph) {
		t.Fatalf("want ErrCyclicResourceGraph, got %v", err)
	}
}

func TestResolveResourceGraph_QueryErrorPropagates(t *testing.T) {
	g := &fakeGraph{pages: map[int]mapPage{
		10: {childMaps: []int{11}},
	}}

	_, err := resolveResourceGraph(context.Background(), 10, g.query)
	if err == nil {
		t.Fatalf("missing child map should fail resolution")
	}
}
