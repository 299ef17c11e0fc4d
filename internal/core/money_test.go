package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{"12.345", "12.35", true}, // half-up on the third decimal
		{"12.344", "12.34", true},
		{"0.01", "0.01", true},
		{" 7 ", "7", true},
		{"0", "", false},
		{"0.00", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
			}
			if got.String() != tc.want {
				t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d (%q): expected error, got %s", i, tc.in, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	d, err := ParseAmount("7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatAmount(d); got != "7.00" {
		t.Fatalf("got %q, want %q", got, "7.00")
	}
	if got := FormatAmount(d.Neg()); got != "-7.00" {
		t.Fatalf("got %q, want %q", got, "-7.00")
	}
}
