package providers

import (
	"context"
	"time"
)

// RecreationArea is a geographic jurisdiction covered by one booking platform
// instance, e.g. a state park system.
type RecreationArea struct {
	ID       int
	Name     string
	Location string
}

// Facility is a campground or other bookable location within a recreation
// area. MapID is the provider-internal key for its resource graph; FacilityID
// is the stable externally meaningful id.
type Facility struct {
	FacilityID       int
	MapID            int
	Name             string
	RecreationAreaID int
	RecreationArea   string
}

// EquipmentCategory classifies gear that can occupy a site. MaxSize is parsed
// from the display name: tent count, RV/trailer length in feet, or
// SizeUnbounded for "over N ft" categories. Zero means no limit was encoded.
type EquipmentCategory struct {
	Name       string
	CategoryID int
	MaxSize    int
}

// SizeUnbounded marks equipment categories with no upper length limit.
const SizeUnbounded = 1 << 20

// AvailabilityEntry is one day's booking status for one resource. A status
// code of zero means the resource can be booked that night.
type AvailabilityEntry struct {
	ResourceID int
	Day        time.Time
	StatusCode int
}

// Available reports whether the entry's night is bookable.
func (e AvailabilityEntry) Available() bool { return e.StatusCode == 0 }

// UnitDetail describes a single bookable resource.
type UnitDetail struct {
	ResourceID  int
	Name        string
	ServiceType string
	MinCapacity int
	MaxCapacity int
	Attributes  map[string]string
}

// DateRange is a booking window: nights [Start, End) at UTC day granularity.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Nights returns the number of nights in the range.
func (d DateRange) Nights() int {
	return int(d.End.Sub(d.Start).Hours() / 24)
}

// AvailableCampsite is the final search output: one bookable unit that is free
// for the whole [StartDate, EndDate) window.
type AvailableCampsite struct {
	CampsiteID       int
	SiteName         string
	StartDate        time.Time
	EndDate          time.Time
	Nights           int
	SiteType         string
	MinOccupancy     int
	MaxOccupancy     int
	RecreationArea   string
	RecreationAreaID int
	FacilityName     string
	FacilityID       int
	BookingURL       string
}

// Provider is the capability set a booking-platform adapter implements. The
// search engine only ever talks to this contract; wire formats stay inside
// the adapter.
type Provider interface {
	Name() string
	// FindRecreationAreas returns the areas whose name or location contains
	// search (case-folded). An empty search matches every registered area.
	FindRecreationAreas(search string) []RecreationArea
	// FindFacilities lists the reservable facilities of a recreation area.
	// Unusable listing entries are skipped with a warning, not fatal.
	FindFacilities(ctx context.Context, recAreaID int) ([]Facility, error)
	// ListEquipmentCategories lists the area's equipment categories with
	// their parsed size limits.
	ListEquipmentCategories(ctx context.Context, recAreaID int) ([]EquipmentCategory, error)
	// ResolveAvailability returns per-day availability for every bookable
	// resource reachable from the facility's map graph, keyed by resource id
	// and ordered by day. It either returns the complete mapping for the
	// window or fails; there are no partial results.
	ResolveAvailability(ctx context.Context, facility Facility, window DateRange, subEquipmentID, partySize int) (map[int][]AvailabilityEntry, error)
	// UnitDetail fetches name, type and occupancy for one resource.
	UnitDetail(ctx context.Context, recAreaID, resourceID int) (*UnitDetail, error)
	// BookingURL builds the human-facing reservation link for a facility and
	// window.
	BookingURL(facility Facility, window DateRange, subEquipmentID, partySize int) string
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry { return &Registry{providers: map[string]Provider{}} }

func (r *Registry) Register(name string, p Provider) { r.providers[name] = p }

func (r *Registry) Get(name string) (Provider, bool) { p, ok := r.providers[name]; return p, ok }
