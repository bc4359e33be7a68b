package main

import "testing"

func TestResolveServerAddr(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{":8080", "http://127.0.0.1:8080"},
		{"", "http://127.0.0.1:8080"},
		{"192.168.1.5:8080", "http://192.168.1.5:8080"},
	}
	for _, tc := range cases {
		if got := resolveServerAddr(tc.in); got != tc.want {
			t.Errorf("resolveServerAddr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
