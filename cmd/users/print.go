package users

import (
	"io"
	"strconv"

	"effstat/eff"
	. "effstat/table"
)

func (uc *UsersCommand) Print(out io.Writer, scored []eff.Scored) {
	// Selection has already capped the population (and -min-core-hours may have kept users past
	// -number on purpose), so every row we are given prints; no renderer cap here.
	tbl := New("rank", "user", "cores%", "mem%", "time%", "core-hours", "total%")
	for i := range scored {
		tbl.AddRow(userRow(strconv.Itoa(scored[i].Rank), &scored[i])...)
	}
	if uc.Summary {
		tbl.AddRow(userRow("-", &uc.population)...)
	}
	tbl.Render(out, Spec{
		Width:    uc.Width,
		Parsable: uc.Parsable,
	})
}

func userRow(rank string, s *eff.Scored) []Cell {
	return []Cell{
		Plain(rank),
		Plain(s.Entity),
		Plain(fixed1(s.Cores)),
		Plain(fixed1(s.Memory)),
		Plain(fixed1(s.Time)),
		Plain(fixed1(s.CoreHours)),
		Plain(fixed1(s.Total)),
	}
}

func fixed1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
