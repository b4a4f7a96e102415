package search

import (
	"errors"
	"testing"

	"github.com/campscout/campscout/internal/providers"
)

func testCategories() []providers.EquipmentCategory {
	return []providers.EquipmentCategory{
		{Name: "1 tent", CategoryID: 5, MaxSize: 1},
		{Name: "rv/trailer up to 20'", CategoryID: 6, MaxSize: 20},
		{Name: "rv/trailer over 40'", CategoryID: 7, MaxSize: providers.SizeUnbounded},
	}
}

func Test_matchEquipmentCategory_SkipsTooSmall(t *testing.T) {
	// A 25 foot trailer does not fit "up to 20'", so the scan continues to
	// the open-ended category.
	got, err := matchEquipmentCategory(EquipmentSpec{Name: "rv/trailer", Length: 25}, testCategories())
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if got != 7 {
		t.Fatalf("want category 7, got %d", got)
	}
}

func Test_matchEquipmentCategory_NoLengthAcceptsFirstMatch(t *testing.T) {
	got, err := matchEquipmentCategory(EquipmentSpec{Name: "trailer"}, testCategories())
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if got != 6 {
		t.Fatalf("want first name match (6), got %d", got)
	}
}

func Test_matchEquipmentCategory_CaseFolded(t *testing.T) {
	got, err := matchEquipmentCategory(EquipmentSpec{Name: "RV/Trailer", Length: 18}, testCategories())
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if got != 6 {
		t.Fatalf("want category 6, got %d", got)
	}
}

func Test_matchEquipmentCategory_Monotonic(t *testing.T) {
	// If a category matches at length L it must also match at any shorter
	// length, and the result never moves to a smaller category.
	matchedAt := map[int]int{}
	for _, length := range []int{20, 15, 10, 5, 1} {
		got, err := matchEquipmentCategory(EquipmentSpec{Name: "trailer", Length: length}, testCategories())
		if err != nil {
			t.Fatalf("length %d: match failed: %v", length, err)
		}
		matchedAt[length] = got
	}
	for length, id := range matchedAt {
		if id != 6 {
			t.Fatalf("length %d matched %d, want 6 for all lengths <= 20", length, id)
		}
	}
}

func Test_matchEquipmentCategory_Exhausted(t *testing.T) {
	_, err := matchEquipmentCategory(EquipmentSpec{Name: "houseboat", Length: 40}, testCategories())
	if !errors.Is(err, ErrNoMatchingEquipment) {
		t.Fatalf("want ErrNoMatchingEquipment, got %v", err)
	}

	// A tent request with a count beyond the category's capacity also
	// exhausts the listing.
	_, err = matchEquipmentCategory(EquipmentSpec{Name: "tent", Length: 2}, testCategories())
	if !errors.Is(err, ErrNoMatchingEquipment) {
		t.Fatalf("want ErrNoMatchingEquipment, got %v", err)
	}
}
