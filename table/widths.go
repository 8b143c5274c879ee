package table

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"
)

// fitWidths squeezes the column widths into the budget: while the
// total line width (columns + gaps + margin) exceeds the budget, the
// single widest column shrinks by one, the first such column winning
// ties.  Shrinking stops when every column is down to one character.
func fitWidths(widths []int, budget int) {
	overhead := colGap*(len(widths)-1) + lineMargin
	for {
		need := overhead
		widest := 0
		for i, w := range widths {
			need += w
			if w > widths[widest] {
				widest = i
			}
		}
		if need <= budget || widths[widest] <= 1 {
			return
		}
		widths[widest]--
	}
}

// ParseWidth interprets the -width option: "none" is unlimited,
// "auto" probes the terminal dimensions, anything else must be a
// positive integer.  Budgets below the floor are raised to the floor.
func ParseWidth(s string) (int, error) {
	switch s {
	case "none":
		return 0, nil
	case "auto":
		return max(autoWidth(), minWidth), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("Invalid width %s: expected \"none\", \"auto\", or a positive integer", s)
	}
	return max(n, minWidth), nil
}

// ParseRowCount interprets the -number option: "all" selects every
// row, anything else must be a positive integer row cap.
func ParseRowCount(s string) (int, error) {
	if s == "all" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("Invalid row count %s: expected \"all\" or a positive integer", s)
	}
	return n, nil
}

// autoWidth is a hook so that tests can run without a terminal.
var autoWidth = func() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
