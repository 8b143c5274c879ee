package accounts

import (
	"strings"
	"testing"
	"time"

	"effstat/db"
	"effstat/eff"
)

type fakeSource struct {
	rows []eff.UsageRow
	err  error

	cluster string
}

var (
	_ = db.UsageSource((*fakeSource)(nil))
)

func (f *fakeSource) UserUsage(
	cluster string,
	fromDate, toDate time.Time,
	account string,
) ([]eff.UsageRow, error) {
	f.cluster = cluster
	return f.rows, f.err
}

func (f *fakeSource) AccountUsage(
	cluster string,
	fromDate, toDate time.Time,
) ([]eff.UsageRow, error) {
	f.cluster = cluster
	return f.rows, f.err
}

func testRows() []eff.UsageRow {
	return []eff.UsageRow{
		{
			Entity:          "physics",
			CoresRequested:  720000,
			CoresUsed:       648000,
			MemoryRequested: 100,
			MemoryUsed:      80,
			TimeRequested:   7200,
			TimeUsed:        7200,
			Jobs:            1,
		},
		{
			Entity:          "chem",
			CoresRequested:  720000,
			CoresUsed:       360000,
			MemoryRequested: 100,
			MemoryUsed:      25,
			TimeRequested:   7200,
			TimeUsed:        5400,
			Jobs:            2,
		},
		{
			Entity:          "bio",
			CoresRequested:  360000,
			CoresUsed:       36000,
			MemoryRequested: 50,
			MemoryUsed:      10,
			TimeRequested:   3600,
			TimeUsed:        1080,
			Jobs:            3,
		},
	}
}

func newCommand() *AccountsCommand {
	ac := new(AccountsCommand)
	ac.Cluster = "fox"
	ac.FromDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ac.ToDate = time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	ac.SortBy = eff.MetricTotal
	ac.Parsable = true
	return ac
}

func runReport(t *testing.T, ac *AccountsCommand, source db.UsageSource) string {
	t.Helper()
	scored, err := ac.Report(source)
	if err != nil {
		t.Fatal(err)
	}
	var stdout strings.Builder
	ac.Print(&stdout, scored)
	return stdout.String()
}

func checkLines(t *testing.T, tag, got string, expect []string) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != len(expect) {
		t.Fatalf("%s: got %d lines, wanted %d:\n%s", tag, len(lines), len(expect), got)
	}
	for i, e := range expect {
		if lines[i] != e {
			t.Fatalf("%s line %d:\ngot    %s\nexpect %s", tag, i, lines[i], e)
		}
	}
}

func TestAccountsReport(t *testing.T) {
	ac := newCommand()
	source := &fakeSource{rows: testRows()}
	got := runReport(t, ac, source)
	checkLines(t, "accounts", got, []string{
		"rank|account|cores%|mem%|time%|jobs|total%",
		"1|physics|90.0|80.0|100.0|1|90.0",
		"2|chem|50.0|25.0|75.0|2|50.0",
		"3|bio|10.0|20.0|30.0|3|20.0",
	})
	if source.cluster != "fox" {
		t.Errorf("Row source got cluster %s", source.cluster)
	}
}

func TestAccountsMaxScore(t *testing.T) {
	// Accounts at or above the ceiling are doing fine and drop out; ranks keep their canonical
	// values from the full population.
	ac := newCommand()
	ac.MaxScore = 60
	got := runReport(t, ac, &fakeSource{rows: testRows()})
	checkLines(t, "max-score", got, []string{
		"rank|account|cores%|mem%|time%|jobs|total%",
		"2|chem|50.0|25.0|75.0|2|50.0",
		"3|bio|10.0|20.0|30.0|3|20.0",
	})
}

func TestAccountsRowCap(t *testing.T) {
	// For accounts, -number caps the printed rows.
	ac := newCommand()
	ac.Number = 2
	got := runReport(t, ac, &fakeSource{rows: testRows()})
	checkLines(t, "cap", got, []string{
		"rank|account|cores%|mem%|time%|jobs|total%",
		"1|physics|90.0|80.0|100.0|1|90.0",
		"2|chem|50.0|25.0|75.0|2|50.0",
	})
}

func TestAccountsSummary(t *testing.T) {
	// The TOTAL row survives the -number cap.
	ac := newCommand()
	ac.Summary = true
	ac.Number = 1
	got := runReport(t, ac, &fakeSource{rows: testRows()})
	checkLines(t, "summary", got, []string{
		"rank|account|cores%|mem%|time%|jobs|total%",
		"1|physics|90.0|80.0|100.0|1|90.0",
		"-|TOTAL|58.0|46.0|76.0|6|60.0",
	})
}

func TestAccountsIncludeEmpty(t *testing.T) {
	defer func(prev func() ([]string, error)) { clusterAccounts = prev }(clusterAccounts)
	clusterAccounts = func() ([]string, error) {
		return []string{"physics", "chem", "bio", "geo"}, nil
	}

	ac := newCommand()
	ac.IncludeEmpty = true
	got := runReport(t, ac, &fakeSource{rows: testRows()})
	checkLines(t, "include-empty", got, []string{
		"rank|account|cores%|mem%|time%|jobs|total%",
		"1|physics|90.0|80.0|100.0|1|90.0",
		"2|chem|50.0|25.0|75.0|2|50.0",
		"3|bio|10.0|20.0|30.0|3|20.0",
		"4|geo|0.0|0.0|0.0|0|0.0",
	})
}

func TestAccountsValidate(t *testing.T) {
	ac := new(AccountsCommand)
	ac.Database = "postgres://example/jobs"
	ac.Cluster = "fox"
	ac.SortByStr = "total"
	ac.NumberStr = "all"
	ac.WidthStr = "none"
	ac.MaxScore = -2
	if err := ac.Validate(); err == nil ||
		!strings.Contains(err.Error(), "-max-score cannot be negative") {
		t.Fatalf("Expected ceiling error, got %v", err)
	}
}