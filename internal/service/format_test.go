package service

import "testing"

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "₦0"},
		{500, "₦500"},
		{1000, "₦1,000"},
		{2000, "₦2,000"},
		{10000, "₦10,000"},
		{123456789, "₦123,456,789"},
		{-2500, "₦-2,500"},
	}

	for _, tc := range cases {
		if got := FormatNaira(tc.amount); got != tc.want {
			t.Fatalf("FormatNaira(%d) = %q; want %q", tc.amount, got, tc.want)
		}
	}
}
