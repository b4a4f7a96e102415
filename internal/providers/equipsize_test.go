package providers

import "testing"

func Test_parseCategorySize(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"1 Tent", 1},
		{"3 Tents", 3},
		{"RV/Trailer up to 20'", 20},
		{"RV/Trailer up to 32'", 32},
		{"RV/Trailer over 40'", SizeUnbounded},
		{"Pop-up trailer", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseCategorySize(tc.name); got != tc.want {
			t.Errorf("parseCategorySize(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}
