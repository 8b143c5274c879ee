package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRenderFixed(t *testing.T) {
	tbl := New("rank", "user", "total%")
	tbl.AddRow(Plain("1"), Plain("alice"), Plain("92.5"))
	tbl.AddRow(Plain("2"), Plain("bob"), Plain("41.0"))

	var buf bytes.Buffer
	tbl.Render(&buf, Spec{})
	expect := `rank   user    total%
---------------------
1      alice   92.5
2      bob     41.0
`
	if buf.String() != expect {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), expect)
	}
}

func TestRenderParsable(t *testing.T) {
	tbl := New("rank", "user", "total%")
	tbl.AddRow(Plain("1"), Plain("averyveryverylongusername"), Banded("92.5", 92.5))

	var buf bytes.Buffer
	// Narrow width and color are both ignored in parsable mode.
	tbl.Render(&buf, Spec{Width: 40, Parsable: true, Color: true})
	expect := "rank|user|total%\n1|averyveryverylongusername|92.5\n"
	if buf.String() != expect {
		t.Fatalf("got %q want %q", buf.String(), expect)
	}
	if strings.Contains(buf.String(), "\x1b") {
		t.Fatal("color escape in parsable output")
	}
}

func TestRenderWidthBudget(t *testing.T) {
	tbl := New("rank", "user", "cores%", "mem%", "time%", "core-hours", "total%")
	tbl.AddRow(
		Plain("1"), Plain("someverylongusername"), Plain("50.0"), Plain("75.0"),
		Plain("80.0"), Plain("12345.6"), Plain("68.3"),
	)

	var buf bytes.Buffer
	tbl.Render(&buf, Spec{Width: 40})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if len(l) > 40-lineMargin {
			t.Fatalf("line too long (%d): %q", len(l), l)
		}
	}
	if !strings.Contains(lines[2], "*") {
		t.Fatalf("expected truncation marker in %q", lines[2])
	}
}

func TestRenderRowCap(t *testing.T) {
	tbl := New("h")
	tbl.AddRow(Plain("aa"))
	tbl.AddRow(Plain("bb"))
	tbl.AddRow(Plain("cccccccc"))

	var buf bytes.Buffer
	tbl.Render(&buf, Spec{Rows: 2})
	// Only the displayed rows count, for the cap and for the widths.
	expect := "h\n--\naa\nbb\n"
	if buf.String() != expect {
		t.Fatalf("got %q want %q", buf.String(), expect)
	}
}

func TestRenderColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	tbl := New("total%")
	tbl.AddRow(Banded("92.5", 92.5))

	var buf bytes.Buffer
	tbl.Render(&buf, Spec{Color: true})
	if !strings.Contains(buf.String(), "\x1b[32m") {
		t.Fatalf("expected green escape in %q", buf.String())
	}

	buf.Reset()
	tbl.Render(&buf, Spec{})
	if strings.Contains(buf.String(), "\x1b") {
		t.Fatalf("unexpected escape in %q", buf.String())
	}
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{0, BandLow},
		{32.9, BandLow},
		{33, BandMid},
		{65.9, BandMid},
		{66, BandHigh},
		{100, BandHigh},
		{150, BandHigh},
	}
	for _, test := range tests {
		if got := BandOf(test.score); got != test.want {
			t.Errorf("BandOf(%v) = %v, want %v", test.score, got, test.want)
		}
	}
}

func TestRowShapePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a bad row shape")
		}
	}()
	tbl := New("a", "b")
	tbl.AddRow(Plain("only one"))
}

func TestClip(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"overlong", 5, "over*"},
		{"xy", 1, "*"},
	}
	for _, test := range tests {
		if got := clip(test.s, test.width); got != test.want {
			t.Errorf("clip(%q, %d) = %q, want %q", test.s, test.width, got, test.want)
		}
	}
}
