package table

import (
	"slices"
	"testing"
)

func TestFitWidths(t *testing.T) {
	// Overhead for two columns is one gap plus the margin, 5.
	tests := []struct {
		widths []int
		budget int
		want   []int
	}{
		{[]int{10, 4}, 100, []int{10, 4}},         // already fits
		{[]int{10, 4}, 19, []int{10, 4}},          // exactly fits
		{[]int{10, 4}, 17, []int{8, 4}},           // widest shrinks
		{[]int{6, 6}, 16, []int{5, 6}},            // ties go to the first column
		{[]int{6, 6}, 15, []int{5, 5}},            // then alternate
		{[]int{3, 3}, 5, []int{1, 1}},             // shrink bottoms out at 1
		{[]int{5, 20, 5}, 30, []int{5, 12, 5}},    // only the widest pays
		{[]int{20, 20, 20}, 41, []int{11, 11, 11}}, // shrink spreads evenly
	}
	for _, test := range tests {
		widths := slices.Clone(test.widths)
		fitWidths(widths, test.budget)
		if !slices.Equal(widths, test.want) {
			t.Errorf("fitWidths(%v, %d) = %v, want %v", test.widths, test.budget, widths, test.want)
		}
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"none", 0},
		{"120", 120},
		{"40", 40},
		{"39", 40}, // raised to the floor
		{"10", 40},
	}
	for _, test := range tests {
		got, err := ParseWidth(test.input)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", test.input, err)
		}
		if got != test.want {
			t.Errorf("ParseWidth(%s) = %d, want %d", test.input, got, test.want)
		}
	}
	for _, bad := range []string{"", "0", "-5", "abc", "40x", "auto "} {
		if _, err := ParseWidth(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseWidthAuto(t *testing.T) {
	saved := autoWidth
	defer func() { autoWidth = saved }()

	autoWidth = func() int { return 100 }
	if got, err := ParseWidth("auto"); err != nil || got != 100 {
		t.Fatalf("auto = %d, %v", got, err)
	}
	// A narrow terminal is still raised to the floor.
	autoWidth = func() int { return 20 }
	if got, err := ParseWidth("auto"); err != nil || got != 40 {
		t.Fatalf("auto = %d, %v", got, err)
	}
}

func TestParseRowCount(t *testing.T) {
	if got, err := ParseRowCount("all"); err != nil || got != 0 {
		t.Fatalf("all = %d, %v", got, err)
	}
	if got, err := ParseRowCount("25"); err != nil || got != 25 {
		t.Fatalf("25 = %d, %v", got, err)
	}
	for _, bad := range []string{"", "0", "-1", "x", "10q"} {
		if _, err := ParseRowCount(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
