package util

import "testing"

func TestMaskClientID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"abc", "a…"},
		{"12345678", "1…"},
		{"1234567890abcdef", "1234…cdef"},
		{"  padded-client-id  ", "padd…t-id"},
	}
	for _, tc := range cases {
		if got := MaskClientID(tc.in); got != tc.want {
			t.Errorf("MaskClientID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"alice@example.com", "a…@e….com"},
		{"Bob@Example.COM", "b…@e….com"},
		{"no-at-sign", "n…n"},
		{"ab", "***"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
