package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campscout/campscout/internal/providers"
)

// EquipmentSpec describes the caller's gear: a free-text name like "trailer"
// or "tent" and an optional length in feet. A zero length matches any size.
type EquipmentSpec struct {
	Name   string
	Length int
}

// ErrNoMatchingEquipment means the area's equipment categories cannot satisfy
// the caller's gear. The search for that area aborts; sibling areas continue.
var ErrNoMatchingEquipment = errors.New("no equipment category matches")

// matchEquipmentCategory maps a gear description to a provider category id.
// Names match as case-folded substrings since upstream uses names like
// "RV/Trailer up to 20'" while callers say "trailer". When a length is given,
// a name match is only accepted if the category can hold it; otherwise the
// scan keeps going through the remaining categories.
func matchEquipmentCategory(spec EquipmentSpec, categories []providers.EquipmentCategory) (int, error) {
	want := strings.ToLower(spec.Name)
	for _, cat := range categories {
		if !strings.Contains(strings.ToLower(cat.Name), want) {
			continue
		}
		if spec.Length <= 0 || spec.Length <= cat.MaxSize {
			return cat.CategoryID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (length %d)", ErrNoMatchingEquipment, spec.Name, spec.Length)
}
