package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campscout/campscout/internal/httpx"
)

// GoingToCamp API paths. Each recreation area lives on its own subdomain; the
// hostname comes from the configured area registry.
const (
	pathRootMaps        = "/api/resourcelocation/rootmaps"
	pathLocationDetails = "/api/resourcelocation"
	pathEquipment       = "/api/equipment"
	pathMapAvailability = "/api/availability/map"
	pathSiteDetails     = "/api/resource/details"
	pathAttributes      = "/api/attribute/filterable"
)

// allEquipmentCategories is the platform's sentinel for "any camping
// equipment"; narrowing happens through subEquipmentCategoryId.
const allEquipmentCategories = -32768

// GoingToCampArea binds a recreation area to the subdomain serving it.
type GoingToCampArea struct {
	Hostname string
	Area     RecreationArea
}

// GoingToCampConfig supplies the deployment-specific pieces of the platform:
// which hostnames serve which recreation areas, which resource category ids
// count as bookable, and how hard we may hit the API.
type GoingToCampConfig struct {
	Areas               []GoingToCampArea
	BookableCategoryIDs []int
	RequestsPerSecond   float64
}

// DefaultGoingToCampConfig covers the areas the platform is known to serve.
// The category ids come from /api/resourcecategory: campsite and group camp.
func DefaultGoingToCampConfig() GoingToCampConfig {
	return GoingToCampConfig{
		Areas: []GoingToCampArea{
			{
				Hostname: "washington.goingtocamp.com",
				Area:     RecreationArea{ID: 1, Name: "Washington State Parks", Location: "Washington, USA"},
			},
			{
				Hostname: "wisconsin.goingtocamp.com",
				Area:     RecreationArea{ID: 2, Name: "Wisconsin State Parks", Location: "Wisconsin, USA"},
			},
		},
		BookableCategoryIDs: []int{-2147483648, -2147483643},
		RequestsPerSecond:   2,
	}
}

// GoingToCamp implements the Provider interface against the GoingToCamp
// booking platform. Construct one instance per search; the attribute
// definition cache lives on the instance and must not outlive a search.
type GoingToCamp struct {
	client   *http.Client
	areas    []GoingToCampArea
	bookable map[int]bool

	mu         sync.Mutex
	attributes map[int]map[string]any
}

func NewGoingToCamp(cfg GoingToCampConfig) *GoingToCamp {
	bookable := make(map[int]bool, len(cfg.BookableCategoryIDs))
	for _, id := range cfg.BookableCategoryIDs {
		bookable[id] = true
	}
	return &GoingToCamp{
		client:     httpx.NewClient(cfg.RequestsPerSecond),
		areas:      cfg.Areas,
		bookable:   bookable,
		attributes: map[int]map[string]any{},
	}
}

func (g *GoingToCamp) Name() string { return "goingtocamp" }

// FindRecreationAreas implements providers.Provider over the configured
// registry; no network call involved.
func (g *GoingToCamp) FindRecreationAreas(search string) []RecreationArea {
	needle := strings.ToLower(search)
	var out []RecreationArea
	for _, a := range g.areas {
		if needle == "" ||
			strings.Contains(strings.ToLower(a.Area.Name), needle) ||
			strings.Contains(strings.ToLower(a.Area.Location), needle) {
			out = append(out, a.Area)
		}
	}
	return out
}

func (g *GoingToCamp) area(recAreaID int) (GoingToCampArea, error) {
	for _, a := range g.areas {
		if a.Area.ID == recAreaID {
			return a, nil
		}
	}
	return GoingToCampArea{}, fmt.Errorf("no recreation area with id %d is registered", recAreaID)
}

// apiGet performs one GET against the area's subdomain and decodes the JSON
// body into out. Transport failures and non-200 statuses surface as
// ErrProviderUnavailable with the offending status/body attached.
func (g *GoingToCamp) apiGet(ctx context.Context, recAreaID int, path string, params url.Values, out any) error {
	a, err := g.area(recAreaID)
	if err != nil {
		return err
	}
	u := url.URL{Scheme: "https", Host: a.Hostname, Path: path}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	httpx.SpoofChromeHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrProviderUnavailable, path, err)
	}
	body, rerr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if rerr != nil {
		return fmt.Errorf("%w: read %s: %v", ErrProviderUnavailable, path, rerr)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s status %d; body: %s", ErrProviderUnavailable, path, resp.StatusCode, clipBody(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v; body: %s", ErrInvalidUpstreamData, path, err, clipBody(body))
	}
	return nil
}

// rawResourceLocation is the provider-shaped rootmaps entry before filtering.
// It only exists between normalization and the Facility join.
type rawResourceLocation struct {
	mapID              int
	resourceCategories []int
	resourceLocationID int
	name               string
}

func normalizeResourceLocation(entry map[string]any) (rawResourceLocation, error) {
	mapID, ok := nestedInt(entry, "mapId")
	if !ok {
		return rawResourceLocation{}, fmt.Errorf("%w: rootmaps entry missing mapId", ErrInvalidUpstreamData)
	}
	locID, ok := nestedInt(entry, "resourceLocationId")
	if !ok {
		return rawResourceLocation{}, fmt.Errorf("%w: rootmaps entry %d missing resourceLocationId", ErrInvalidUpstreamData, mapID)
	}
	name, _ := nestedString(entry, "resourceLocationLocalizedValues", "en-US")
	categories, _ := nestedInts(entry, "resourceCategoryIds")
	return rawResourceLocation{
		mapID:              mapID,
		resourceCategories: categories,
		resourceLocationID: locID,
		name:               name,
	}, nil
}

func (g *GoingToCamp) isBookable(categories []int) bool {
	for _, c := range categories {
		if g.bookable[c] {
			return true
		}
	}
	return false
}

// FindFacilities lists the area's root maps, keeps the entries whose resource
// categories mark them as reservable, and joins each with its resource
// location detail to produce canonical facilities. Entries that cannot be
// normalized or have no matching detail are dropped with a warning.
func (g *GoingToCamp) FindFacilities(ctx context.Context, recAreaID int) ([]Facility, error) {
	a, err := g.area(recAreaID)
	if err != nil {
		return nil, err
	}

	var listing []map[string]any
	if err := g.apiGet(ctx, recAreaID, pathRootMaps, nil, &listing); err != nil {
		return nil, err
	}
	var details []map[string]any
	if err := g.apiGet(ctx, recAreaID, pathLocationDetails, nil, &details); err != nil {
		return nil, err
	}
	detailByLocation := make(map[int]map[string]any, len(details))
	for _, d := range details {
		if id, ok := nestedInt(d, "resourceLocationId"); ok {
			detailByLocation[id] = d
		}
	}

	var out []Facility
	for _, entry := range listing {
		raw, err := normalizeResourceLocation(entry)
		if err != nil {
			slog.Warn("skipping unusable facility listing entry", slog.Any("err", err))
			continue
		}
		if !g.isBookable(raw.resourceCategories) {
			continue
		}
		detail, ok := detailByLocation[raw.resourceLocationID]
		if !ok {
			slog.Warn("facility has no matching location detail, dropping",
				slog.Int("resourceLocation", raw.resourceLocationID),
				slog.String("name", raw.name))
			continue
		}
		name, ok := nestedString(detail, "localizedValues", 0, "fullName")
		if !ok || name == "" {
			name = raw.name
		}
		label := a.Area.Name
		if region, ok := nestedString(detail, "region"); ok && region != "" {
			label = a.Area.Name + ", " + region
		}
		out = append(out, Facility{
			FacilityID:       raw.resourceLocationID,
			MapID:            raw.mapID,
			Name:             name,
			RecreationAreaID: recAreaID,
			RecreationArea:   label,
		})
	}
	slog.Info("facilities listed", slog.String("provider", g.Name()), slog.Int("recArea", recAreaID), slog.Int("count", len(out)))
	return out, nil
}

// ListEquipmentCategories fetches the area's equipment listing and parses a
// size limit out of each sub-category's display name. Only the primary
// equipment group is considered; the group-camp group follows it in the
// response.
func (g *GoingToCamp) ListEquipmentCategories(ctx context.Context, recAreaID int) ([]EquipmentCategory, error) {
	var listing []map[string]any
	if err := g.apiGet(ctx, recAreaID, pathEquipment, nil, &listing); err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, fmt.Errorf("%w: empty equipment listing", ErrInvalidUpstreamData)
	}
	raw, ok := nestedLookup(listing[0], "subEquipmentCategories")
	if !ok {
		return nil, fmt.Errorf("%w: equipment listing has no subEquipmentCategories", ErrInvalidUpstreamData)
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: subEquipmentCategories is not a sequence", ErrInvalidUpstreamData)
	}

	var out []EquipmentCategory
	for _, sub := range seq {
		name, ok := nestedString(sub, "localizedValues", 0, "name")
		if !ok {
			slog.Warn("equipment sub-category has no localized name, skipping")
			continue
		}
		id, ok := nestedInt(sub, "subEquipmentCategoryId")
		if !ok {
			slog.Warn("equipment sub-category has no id, skipping", slog.String("name", name))
			continue
		}
		out = append(out, EquipmentCategory{
			Name:       strings.ToLower(name),
			CategoryID: id,
			MaxSize:    parseCategorySize(name),
		})
	}
	return out, nil
}

// mapAvailabilityResponse is the partial /api/availability/map shape we need:
// per-resource day statuses plus links to nested maps.
type mapAvailabilityResponse struct {
	ResourceAvailabilities map[string][]struct {
		Availability int `json:"availability"`
	} `json:"resourceAvailabilities"`
	MapLinkAvailabilities map[string]json.RawMessage `json:"mapLinkAvailabilities"`
}

// ResolveAvailability walks the facility's map graph and returns per-day
// availability for every resource found, keyed by resource id.
func (g *GoingToCamp) ResolveAvailability(ctx context.Context, facility Facility, window DateRange, subEquipmentID, partySize int) (map[int][]AvailabilityEntry, error) {
	query := func(ctx context.Context, mapID int) (mapPage, error) {
		return g.queryMap(ctx, facility, mapID, window, subEquipmentID, partySize)
	}
	return resolveResourceGraph(ctx, facility.MapID, query)
}

func (g *GoingToCamp) queryMap(ctx context.Context, facility Facility, mapID int, window DateRange, subEquipmentID, partySize int) (mapPage, error) {
	params := url.Values{}
	params.Set("mapId", strconv.Itoa(mapID))
	params.Set("resourceLocationId", strconv.Itoa(facility.FacilityID))
	params.Set("bookingCategoryId", "0")
	params.Set("startDate", window.Start.Format("2006-01-02"))
	params.Set("endDate", window.End.Format("2006-01-02"))
	params.Set("isReserving", "true")
	params.Set("getDailyAvailability", "true")
	params.Set("partySize", strconv.Itoa(partySize))
	params.Set("equipmentCategoryId", strconv.Itoa(allEquipmentCategories))
	params.Set("subEquipmentCategoryId", strconv.Itoa(subEquipmentID))

	var parsed mapAvailabilityResponse
	if err := g.apiGet(ctx, facility.RecreationAreaID, pathMapAvailability, params, &parsed); err != nil {
		return mapPage{}, err
	}

	page := mapPage{resources: make(map[int][]AvailabilityEntry, len(parsed.ResourceAvailabilities))}
	for key, days := range parsed.ResourceAvailabilities {
		resourceID, err := strconv.Atoi(key)
		if err != nil {
			slog.Warn("non-numeric resource id in availability response", slog.String("id", key))
			continue
		}
		entries := make([]AvailabilityEntry, 0, len(days))
		for i, d := range days {
			day := window.Start.AddDate(0, 0, i)
			if !day.Before(window.End) {
				// upstream returned more days than the window holds
				break
			}
			entries = append(entries, AvailabilityEntry{ResourceID: resourceID, Day: day, StatusCode: d.Availability})
		}
		page.resources[resourceID] = entries
	}
	for key := range parsed.MapLinkAvailabilities {
		childID, err := strconv.Atoi(key)
		if err != nil {
			slog.Warn("non-numeric map link id in availability response", slog.String("id", key))
			continue
		}
		page.childMaps = append(page.childMaps, childID)
	}
	sort.Ints(page.childMaps)
	return page, nil
}

// UnitDetail fetches one resource's detail record and resolves its attribute
// ids against the area's attribute definitions.
func (g *GoingToCamp) UnitDetail(ctx context.Context, recAreaID, resourceID int) (*UnitDetail, error) {
	defs, err := g.attributeDefinitions(ctx, recAreaID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("resourceId", strconv.Itoa(resourceID))
	var detail map[string]any
	if err := g.apiGet(ctx, recAreaID, pathSiteDetails, params, &detail); err != nil {
		return nil, err
	}

	name, ok := nestedString(detail, "localizedValues", 0, "name")
	if !ok {
		return nil, fmt.Errorf("%w: resource %d detail has no localized name", ErrInvalidUpstreamData, resourceID)
	}
	minCapacity, _ := nestedInt(detail, "minCapacity")
	maxCapacity, _ := nestedInt(detail, "maxCapacity")

	attrs := map[string]string{}
	if defined, ok := nestedLookup(detail, "definedAttributes"); ok {
		if seq, ok := defined.([]any); ok {
			for _, attr := range seq {
				k, v, ok := resolveAttribute(attr, defs)
				if !ok {
					continue
				}
				attrs[k] = v
			}
		}
	}

	return &UnitDetail{
		ResourceID:  resourceID,
		Name:        name,
		ServiceType: attrs["Service Type"],
		MinCapacity: minCapacity,
		MaxCapacity: maxCapacity,
		Attributes:  attrs,
	}, nil
}

// resolveAttribute turns one definedAttributes entry into a display name and
// a comma-joined value string. Scalar attributes carry a direct value;
// enum attributes list values that must be matched against the definition's
// enum table.
func resolveAttribute(attr any, defs map[string]any) (string, string, bool) {
	defID, ok := nestedInt(attr, "attributeDefinitionId")
	if !ok {
		return "", "", false
	}
	def, ok := defs[strconv.Itoa(defID)]
	if !ok {
		return "", "", false
	}
	name, ok := nestedString(def, "localizedValues", 0, "displayName")
	if !ok {
		return "", "", false
	}

	if raw, ok := nestedLookup(attr, "value"); ok && raw != nil {
		return name, attrScalar(raw), true
	}

	var values []string
	rawValues, _ := nestedLookup(attr, "values")
	seq, _ := rawValues.([]any)
	defEnums, _ := nestedLookup(def, "values")
	enumSeq, _ := defEnums.([]any)
	for _, v := range seq {
		for _, enum := range enumSeq {
			enumValue, ok := nestedLookup(enum, "enumValue")
			if !ok || attrScalar(enumValue) != attrScalar(v) {
				continue
			}
			if display, ok := nestedString(enum, "localizedValues", 0, "displayName"); ok {
				values = append(values, display)
			}
		}
	}
	return name, strings.Join(values, ","), true
}

func attrScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// attributeDefinitions fetches /api/attribute/filterable once per recreation
// area and caches it on the adapter instance.
func (g *GoingToCamp) attributeDefinitions(ctx context.Context, recAreaID int) (map[string]any, error) {
	g.mu.Lock()
	cached, ok := g.attributes[recAreaID]
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	var defs map[string]any
	if err := g.apiGet(ctx, recAreaID, pathAttributes, nil, &defs); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.attributes[recAreaID] = defs
	g.mu.Unlock()
	return defs, nil
}

// BookingURL builds the reservation link a person can open to book what the
// search found.
func (g *GoingToCamp) BookingURL(facility Facility, window DateRange, subEquipmentID, partySize int) string {
	a, err := g.area(facility.RecreationAreaID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(
		"https://%s/create-booking/results?mapId=%d&bookingCategoryId=0&startDate=%s&endDate=%s&isReserving=true&equipmentId=%d&subEquipmentId=%d&partySize=%d&resourceLocationId=%d",
		a.Hostname, facility.MapID,
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"),
		allEquipmentCategories, subEquipmentID, partySize, facility.FacilityID)
}

func clipBody(b []byte) string {
	const max = 2048
	if len(b) == 0 {
		return ""
	}
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

var _ Provider = (*GoingToCamp)(nil)

// normalizeDay returns t truncated to 00:00:00 UTC.
func normalizeDay(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a window from two timestamps, normalized to UTC days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: normalizeDay(start), End: normalizeDay(end)}
}
