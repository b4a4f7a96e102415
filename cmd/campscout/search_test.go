package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campscout/campscout/internal/config"
	"github.com/campscout/campscout/internal/providers"
	"github.com/campscout/campscout/internal/search"
)

// slowProvider answers every availability query after a fixed delay and
// records how many queries were ever in flight at once.
type slowProvider struct {
	delay      time.Duration
	inFlight   atomic.Int32
	overlapped atomic.Bool
	calls      atomic.Int32
}

func (p *slowProvider) Name() string { return "slow" }

func (p *slowProvider) FindRecreationAreas(string) []providers.RecreationArea {
	return []providers.RecreationArea{{ID: 1, Name: "Test Parks"}}
}

func (p *slowProvider) FindFacilities(context.Context, int) ([]providers.Facility, error) {
	return []providers.Facility{{FacilityID: 100, MapID: 10, Name: "Test", RecreationAreaID: 1}}, nil
}

func (p *slowProvider) ListEquipmentCategories(context.Context, int) ([]providers.EquipmentCategory, error) {
	return nil, nil
}

func (p *slowProvider) ResolveAvailability(ctx context.Context, _ providers.Facility, window providers.DateRange, _, _ int) (map[int][]providers.AvailabilityEntry, error) {
	p.calls.Add(1)
	if p.inFlight.Add(1) > 1 {
		p.overlapped.Store(true)
	}
	defer p.inFlight.Add(-1)
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	entries := make([]providers.AvailabilityEntry, 0, window.Nights())
	for i := 0; i < window.Nights(); i++ {
		entries = append(entries, providers.AvailabilityEntry{
			ResourceID: 1, Day: window.Start.AddDate(0, 0, i),
		})
	}
	return map[int][]providers.AvailabilityEntry{1: entries}, nil
}

func (p *slowProvider) UnitDetail(_ context.Context, _, resourceID int) (*providers.UnitDetail, error) {
	return &providers.UnitDetail{ResourceID: resourceID, Name: fmt.Sprintf("Site %d", resourceID)}, nil
}

func (p *slowProvider) BookingURL(providers.Facility, providers.DateRange, int, int) string {
	return "https://slow/book"
}

var _ providers.Provider = (*slowProvider)(nil)

// A poll that outlasts the interval must not overlap the next tick; the
// dedupe state is shared across polls, so two running at once would race.
func TestRunWatch_SlowPollsDoNotOverlap(t *testing.T) {
	if testing.Short() {
		t.Skip("multi-second watch loop")
	}

	p := &slowProvider{delay: 1500 * time.Millisecond}
	engine := search.New(p)
	start := time.Now().AddDate(0, 0, 7)
	opts := search.Options{
		RecreationAreaIDs: []int{1},
		Windows:           []providers.DateRange{providers.NewDateRange(start, start.AddDate(0, 0, 3))},
		Concurrency:       1,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4200*time.Millisecond)
	defer cancel()
	if err := runWatch(ctx, &config.Config{}, engine, opts, time.Second); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if p.calls.Load() < 2 {
		t.Fatalf("want at least two polls, got %d", p.calls.Load())
	}
	if p.overlapped.Load() {
		t.Fatal("polls ran concurrently")
	}
}
