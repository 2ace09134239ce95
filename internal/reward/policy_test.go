package reward

import "testing"

func TestAmount(t *testing.T) {
	cases := []struct {
		qualified int
		want      int64
	}{
		{0, 2000},
		{1, 2000},
		{4, 2000},
		{5, 3000},
		{6, 3000},
		{10, 3000},
		{100, 3000},
	}

	for _, tc := range cases {
		if got := Amount(tc.qualified); got != tc.want {
			t.Fatalf("Amount(%d) = %d; want %d", tc.qualified, got, tc.want)
		}
	}
}

func TestMilestoneBonus(t *testing.T) {
	cases := []struct {
		qualified int
		want      int64
	}{
		{0, 0},
		{9, 0},
		{10, 10000},
		{11, 0},
		{20, 0},
	}

	for _, tc := range cases {
		if got := MilestoneBonus(tc.qualified); got != tc.want {
			t.Fatalf("MilestoneBonus(%d) = %d; want %d", tc.qualified, got, tc.want)
		}
	}
}
