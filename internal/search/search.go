// Package search turns a provider's raw availability signal into "available
// for N consecutive nights" answers across one or more recreation areas.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/campscout/campscout/internal/providers"
)

var (
	// ErrUnderspecifiedSearch means no selector was supplied. Surfaced before
	// any network call.
	ErrUnderspecifiedSearch = errors.New("search needs at least one of campsite ids, facility ids, or a recreation area")

	// ErrSearchCancelled means the search context was cancelled before every
	// facility could be checked. Partial results are still returned.
	ErrSearchCancelled = errors.New("search cancelled")
)

// Options are the parameters of one search invocation.
type Options struct {
	// Windows are the date ranges to check; nights are [Start, End).
	Windows []providers.DateRange
	// Nights is the minimum number of consecutive free nights. Zero means 1.
	Nights int
	// WeekendsOnly keeps only windows whose span touches a Friday or
	// Saturday.
	WeekendsOnly bool

	// Selectors, by priority: explicit campsite ids narrow resources within
	// the full area listing, explicit facility ids filter the listing, and
	// otherwise every facility of the area is searched. At least one selector
	// must be set.
	RecreationAreaIDs []int
	FacilityIDs       []int
	CampsiteIDs       []int

	// Equipment, when named, is resolved to a provider category id once per
	// recreation area.
	Equipment EquipmentSpec
	PartySize int

	// Concurrency bounds the number of facilities checked in parallel.
	// Zero means 4.
	Concurrency int

	// OnFound, when set, receives each facility's discoveries as they are
	// made, earliest start date first within a facility. Calls are
	// serialized, never concurrent.
	OnFound func([]providers.AvailableCampsite)
}

// FacilityFailure records one facility whose check could not complete.
type FacilityFailure struct {
	Facility providers.Facility
	Err      error
}

// AreaFailure records one recreation area whose search aborted before its
// facilities were checked.
type AreaFailure struct {
	RecreationAreaID int
	Err              error
}

// Result is the outcome of one search: everything found plus an itemized
// account of what could not be checked. An empty Campsites with no failures
// means the search completed and there genuinely was no availability.
type Result struct {
	Campsites         []providers.AvailableCampsite
	FacilityFailures  []FacilityFailure
	AreaFailures      []AreaFailure
	FacilitiesChecked int
	FacilitiesSkipped int
}

// Complete reports whether every facility and area was checked.
func (r *Result) Complete() bool {
	return len(r.FacilityFailures) == 0 && len(r.AreaFailures) == 0 && r.FacilitiesSkipped == 0
}

// Engine drives a provider through the search flow. It holds no state between
// runs.
type Engine struct {
	provider providers.Provider
	logger   *slog.Logger
}

func New(p providers.Provider) *Engine {
	return &Engine{provider: p, logger: slog.Default()}
}

// Run executes one search. Per-facility and per-area errors are recorded in
// the result without aborting sibling work; only a missing selector or a
// cancelled context fails the whole search.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.Nights <= 0 {
		opts.Nights = 1
	}
	if opts.PartySize <= 0 {
		opts.PartySize = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	areaIDs := opts.RecreationAreaIDs
	if len(areaIDs) == 0 {
		// Facility or campsite ids without an area: scan every registered
		// area for them.
		for _, a := range e.provider.FindRecreationAreas("") {
			areaIDs = append(areaIDs, a.ID)
		}
	}

	res := &Result{}
	var mu sync.Mutex
	for _, areaID := range areaIDs {
		if ctx.Err() != nil {
			res.AreaFailures = append(res.AreaFailures, AreaFailure{RecreationAreaID: areaID, Err: ErrSearchCancelled})
			continue
		}
		e.searchArea(ctx, areaID, opts, res, &mu)
	}

	if ctx.Err() != nil {
		total := res.FacilitiesChecked + res.FacilitiesSkipped
		return res, fmt.Errorf("%w: %d of %d facilities unchecked", ErrSearchCancelled, res.FacilitiesSkipped, total)
	}
	return res, nil
}

func validate(opts Options) error {
	if len(opts.CampsiteIDs) == 0 && len(opts.FacilityIDs) == 0 && len(opts.RecreationAreaIDs) == 0 {
		return ErrUnderspecifiedSearch
	}
	if len(opts.Windows) == 0 {
		return fmt.Errorf("%w: no search window", ErrUnderspecifiedSearch)
	}
	for _, w := range opts.Windows {
		if !w.Start.Before(w.End) {
			return fmt.Errorf("%w: window %s is empty", ErrUnderspecifiedSearch, w.Start.Format("2006-01-02"))
		}
	}
	return nil
}

// searchArea resolves the area's facility set and equipment category, then
// fans facility checks out across a bounded worker group.
func (e *Engine) searchArea(ctx context.Context, areaID int, opts Options, res *Result, mu *sync.Mutex) {
	facilities, err := e.selectFacilities(ctx, areaID, opts)
	if err != nil {
		mu.Lock()
		res.AreaFailures = append(res.AreaFailures, AreaFailure{RecreationAreaID: areaID, Err: err})
		mu.Unlock()
		return
	}

	// Equipment resolves once per area, not per facility.
	equipmentID := 0
	if opts.Equipment.Name != "" {
		categories, err := e.provider.ListEquipmentCategories(ctx, areaID)
		if err == nil {
			equipmentID, err = matchEquipmentCategory(opts.Equipment, categories)
		}
		if err != nil {
			mu.Lock()
			res.AreaFailures = append(res.AreaFailures, AreaFailure{RecreationAreaID: areaID, Err: err})
			mu.Unlock()
			return
		}
	}

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for _, facility := range facilities {
		if ctx.Err() != nil {
			// Stop dispatching; in-flight checks run to completion.
			mu.Lock()
			res.FacilitiesSkipped++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			sites, err := e.searchFacility(ctx, areaID, facility, equipmentID, opts)
			mu.Lock()
			defer mu.Unlock()
			if err == nil && opts.OnFound != nil && len(sites) > 0 {
				opts.OnFound(sites)
			}
			res.FacilitiesChecked++
			if err != nil {
				res.FacilityFailures = append(res.FacilityFailures, FacilityFailure{Facility: facility, Err: err})
				return nil
			}
			res.Campsites = append(res.Campsites, sites...)
			return nil
		})
	}
	// Workers never return errors; failures land in res.
	_ = g.Wait()
}

// selectFacilities picks the facility set for one area. Explicit campsite ids
// keep the full listing since resource narrowing happens during the
// availability pass; explicit facility ids filter the listing; otherwise the
// whole area is searched.
func (e *Engine) selectFacilities(ctx context.Context, areaID int, opts Options) ([]providers.Facility, error) {
	all, err := e.provider.FindFacilities(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if len(opts.CampsiteIDs) > 0 {
		return all, nil
	}
	if len(opts.FacilityIDs) > 0 {
		want := intSet(opts.FacilityIDs)
		var out []providers.Facility
		for _, f := range all {
			if want[f.FacilityID] {
				out = append(out, f)
			}
		}
		return out, nil
	}
	return all, nil
}

// searchFacility resolves one facility's availability for every requested
// window and emits a record per qualifying (resource, window) pair. Unit
// details are fetched at most once per resource; a malformed detail skips
// that resource with a warning instead of failing the facility.
func (e *Engine) searchFacility(ctx context.Context, areaID int, facility providers.Facility, equipmentID int, opts Options) ([]providers.AvailableCampsite, error) {
	campsiteFilter := intSet(opts.CampsiteIDs)
	details := map[int]*providers.UnitDetail{}
	var out []providers.AvailableCampsite

	for _, window := range opts.Windows {
		byResource, err := e.provider.ResolveAvailability(ctx, facility, window, equipmentID, opts.PartySize)
		if err != nil {
			return nil, err
		}
		for _, resourceID := range sortedKeys(byResource) {
			if len(campsiteFilter) > 0 && !campsiteFilter[resourceID] {
				continue
			}
			for _, run := range availableRuns(byResource[resourceID]) {
				for _, w := range candidateWindows(run, opts.Nights, opts.WeekendsOnly) {
					detail, ok := details[resourceID]
					if !ok {
						detail, err = e.provider.UnitDetail(ctx, areaID, resourceID)
						if err != nil {
							if errors.Is(err, providers.ErrInvalidUpstreamData) {
								e.logger.Warn("unusable unit detail, skipping resource",
									slog.Int("resource", resourceID), slog.Any("err", err))
								details[resourceID] = nil
								continue
							}
							return nil, err
						}
						details[resourceID] = detail
					}
					if detail == nil {
						continue
					}
					out = append(out, providers.AvailableCampsite{
						CampsiteID:       resourceID,
						SiteName:         detail.Name,
						StartDate:        w.Start,
						EndDate:          w.End,
						Nights:           w.Nights(),
						SiteType:         detail.ServiceType,
						MinOccupancy:     detail.MinCapacity,
						MaxOccupancy:     detail.MaxCapacity,
						RecreationArea:   facility.RecreationArea,
						RecreationAreaID: areaID,
						FacilityName:     facility.Name,
						FacilityID:       facility.FacilityID,
						BookingURL:       e.provider.BookingURL(facility, w, equipmentID, opts.PartySize),
					})
				}
			}
		}
	}

	// Earlier dates first within a facility.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].CampsiteID < out[j].CampsiteID
	})
	return out, nil
}

func intSet(ids []int) map[int]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedKeys(m map[int][]providers.AvailabilityEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
