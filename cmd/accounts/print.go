package accounts

import (
	"io"
	"strconv"

	"effstat/eff"
	. "effstat/table"
)

func (ac *AccountsCommand) Print(out io.Writer, scored []eff.Scored) {
	// The renderer caps the row count, but a requested TOTAL row must survive the cap, so in that
	// case trim here and let the renderer print everything it is given.
	limit := ac.Number
	if ac.Summary {
		if limit > 0 && len(scored) > limit {
			scored = scored[:limit]
		}
		limit = 0
	}
	tbl := New("rank", "account", "cores%", "mem%", "time%", "jobs", "total%")
	for i := range scored {
		tbl.AddRow(accountRow(strconv.Itoa(scored[i].Rank), &scored[i])...)
	}
	if ac.Summary {
		tbl.AddRow(accountRow("-", &ac.population)...)
	}
	tbl.Render(out, Spec{
		Width:    ac.Width,
		Rows:     limit,
		Parsable: ac.Parsable,
		Color:    !ac.NoColor,
	})
}

// Score cells carry their color band.  The renderer ignores the band in parsable mode, and the
// color library suppresses escapes when stdout is not a terminal.
func accountRow(rank string, s *eff.Scored) []Cell {
	return []Cell{
		Plain(rank),
		Plain(s.Entity),
		Banded(fixed1(s.Cores), s.Cores),
		Banded(fixed1(s.Memory), s.Memory),
		Banded(fixed1(s.Time), s.Time),
		Plain(strconv.FormatInt(s.Jobs, 10)),
		Banded(fixed1(s.Total), s.Total),
	}
}

func fixed1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
