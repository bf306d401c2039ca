package handler

import "testing"

func TestParseBoolParam(t *testing.T) {
	cases := []struct {
		in    string
		value bool
		ok    bool
	}{
		{"true", true, true},
		{"1", true, true},
		{"false", false, true},
		{"0", false, true},
		{"", false, false}, // 未传参数不过滤
		{"yes", false, false},
	}

	for _, tc := range cases {
		value, ok := parseBoolParam(tc.in)
		if value != tc.value || ok != tc.ok {
			t.Errorf("parseBoolParam(%q) = (%v, %v), want (%v, %v)",
				tc.in, value, ok, tc.value, tc.ok)
		}
	}
}
