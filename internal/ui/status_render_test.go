package ui

import "testing"

func TestFmtDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{5, "5s"},
		{65, "1m5s"},
		{3665, "1h1m5s"},
	}
	for _, tc := range cases {
		if got := fmtDuration(tc.seconds); got != tc.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
