package rank

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"카페", "카페"},
		{"  카 페 ", "카페"},
		{"PIZZA Hut", "pizzahut"},
		{"\u3000카페\t\n", "카페"},
		{"\ufeff분식", "분식"},
		{"비알코올 음료점업", "비알코올음료점업"},
		{"\u1100\u1161", "가"}, // conjoining jamo compose to a syllable
		{"Cafe\u0301", "caf\u00e9"}, // combining acute composes
		{"치킨\u00a0집", "치킨집"},
		{"\u2003 \ufeff", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
