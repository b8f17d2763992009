package atable

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/atable/pkg/textwidth"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestMergeWidths(t *testing.T) {
	tests := []struct {
		name      string
		old, next []int
		want      []int
	}{
		{name: "both empty", want: []int{}},
		{name: "grow from empty", next: []int{2, 3}, want: []int{2, 3}},
		{name: "elementwise max", old: []int{4, 1}, next: []int{2, 3}, want: []int{4, 3}},
		{name: "shorter next keeps tail", old: []int{1, 2, 3}, next: []int{5}, want: []int{5, 2, 3}},
		{name: "longer next grows", old: []int{5}, next: []int{1, 2, 3}, want: []int{5, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeWidths(tt.old, tt.next))
		})
	}
}

func TestPrintEndToEnd(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf)

	require.NoError(t, tbl.Print("ab", "c"))
	require.NoError(t, tbl.Print("a", "cde"))

	assert.Equal(t, []string{"ab c", "a  cde"}, lines(&buf))
	assert.Equal(t, []int{2, 3}, tbl.Widths())
}

func TestPrintWidthsNeverShrink(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf)
	rows := [][]any{
		{"a", "bb"},
		{"cccc"},
		{"d", "e", "ffffff"},
		{"", ""},
		{"東京", "x"},
	}

	prev := []int{}
	for _, row := range rows {
		require.NoError(t, tbl.Print(row...))
		cur := tbl.Widths()
		require.GreaterOrEqual(t, len(cur), len(prev))
		for i := range prev {
			assert.GreaterOrEqual(t, cur[i], prev[i], "column %d shrank", i)
		}
		prev = cur
	}
	assert.Equal(t, []int{4, 2, 6}, prev)
}

func TestPrintNeverTruncatesOwnRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf, WithDelimiter("|"))
	rows := [][]string{
		{"x", "yy"},
		{"東京都", "z"},
		{"longer value", "東"},
	}
	for _, row := range rows {
		buf.Reset()
		args := make([]any, len(row))
		for i, c := range row {
			args[i] = c
		}
		require.NoError(t, tbl.Print(args...))

		parts := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "|")
		require.Len(t, parts, len(row))
		for i, part := range parts {
			got, err := textwidth.DisplayWidth(part)
			require.NoError(t, err)
			want, err := textwidth.DisplayWidth(row[i])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, want)
			assert.True(t, strings.HasPrefix(part, row[i]))
		}
	}
}

func TestResetMatchesFreshTable(t *testing.T) {
	var used, fresh bytes.Buffer
	tbl := New(&used)
	require.NoError(t, tbl.Print("a very wide value", "b"))
	tbl.Reset()
	assert.Empty(t, tbl.Widths())

	used.Reset()
	require.NoError(t, tbl.Print("x", "y"))
	require.NoError(t, New(&fresh).Print("x", "y"))
	assert.Equal(t, fresh.String(), used.String())
}

func TestPrintWideCharacters(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf)
	require.NoError(t, tbl.Print("東京都", "x"))
	require.NoError(t, tbl.Print("abc", "y"))
	assert.Equal(t, []string{"東京都 x", "abc    y"}, lines(&buf))
}

func TestPrintCharsMode(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf, WithWidthMode(textwidth.ModeChars))
	require.NoError(t, tbl.Print("東京都", "x"))
	require.NoError(t, tbl.Print("abc", "y"))
	assert.Equal(t, []string{"東京都 x", "abc y"}, lines(&buf))
}

func TestPrintStringifiesValues(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf, WithDelimiter(","))
	require.NoError(t, tbl.Print(1, 2.5, true, nil))
	assert.Equal(t, "1,2.5,true,<nil>\n", buf.String())
}

func TestPrintUnknownCategoryLeavesWidths(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf)
	require.NoError(t, tbl.Print("ab"))

	err := tbl.Print("ｱｱｱｱｱ")
	require.ErrorIs(t, err, textwidth.ErrUnknownWidthCategory)
	assert.Equal(t, []int{2}, tbl.Widths())
	assert.Equal(t, "ab\n", buf.String())

	lenient := New(&buf, WithMeasurer(textwidth.New(textwidth.ModeVisual, textwidth.WithUnknownWidth(1))))
	require.NoError(t, lenient.Print("ｱｱ"))
	assert.Equal(t, []int{2}, lenient.Widths())
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestPrintReturnsWriteError(t *testing.T) {
	sentinel := errors.New("broken pipe")
	tbl := New(failingWriter{err: sentinel})

	err := tbl.Print("abc")
	assert.Same(t, sentinel, err)
	// Widths are recorded before the write is attempted.
	assert.Equal(t, []int{3}, tbl.Widths())
}

func TestRenderBeyondKnownWidths(t *testing.T) {
	tbl := New(nil)
	require.NoError(t, tbl.RecordWidths([]string{"abc"}))

	got, err := tbl.Render([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "a   b c", got)
}

func TestPrintHeader(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader("name", "id"))
		require.NoError(t, tbl.Print("bob", "123"))
		assert.Equal(t, []string{"name id", "==== ==", "bob  123"}, lines(&buf))
	})

	t.Run("separator uses rune count", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader("東", "b"))
		assert.Equal(t, []string{"東 b", "=  ="}, lines(&buf))
	})

	t.Run("custom separator", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf, WithHeaderSeparator("-"))
		require.NoError(t, tbl.PrintHeader("ab"))
		require.NoError(t, tbl.PrintHeaderWith("~", "cd"))
		assert.Equal(t, []string{"ab", "--", "cd", "~~"}, lines(&buf))
	})
}

type process struct {
	PID     int
	Command string `table:"cmd"`
	secret  string
	Ignored bool `table:"-"`
}

type labelled struct {
	Label string
}

func (labelled) TableHeader() []string { return []string{"LABEL"} }
func (l labelled) TableRow() []any     { return []any{"<" + l.Label + ">"} }

type job struct {
	Name   string
	Status string
}

func (j job) String() string { return j.Name + "/" + j.Status }

type rowOnly struct {
	A, B string
}

func (r rowOnly) TableRow() []any { return []any{r.A + r.B} }

func TestRecordHeaderAndRowColumnsMatch(t *testing.T) {
	t.Run("stringer struct is still expanded", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader(job{}))
		require.NoError(t, tbl.Print(job{Name: "build", Status: "ok"}))

		got := lines(&buf)
		assert.Equal(t, []string{"Name Status", "==== ======", "build ok    "}, got)
		assert.Len(t, expandRow([]any{job{}}), len(expandHeader([]any{job{}})))
		assert.Equal(t, []int{5, 6}, tbl.Widths())
	})

	t.Run("row adapter names its own columns", func(t *testing.T) {
		header := expandHeader([]any{rowOnly{}})
		row := expandRow([]any{rowOnly{A: "x", B: "y"}})
		assert.Len(t, row, len(header))
		assert.Len(t, expandHeader([]any{reflect.TypeOf(rowOnly{})}), len(row))

		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.Print(rowOnly{A: "x", B: "y"}))
		assert.Equal(t, "xy\n", buf.String())
	})
}

func TestRecordExpansion(t *testing.T) {
	t.Run("struct value and pointer", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader(process{}))
		require.NoError(t, tbl.Print(process{PID: 7, Command: "sleep", secret: "x", Ignored: true}))
		require.NoError(t, tbl.Print(&process{PID: 12345, Command: "go"}))
		assert.Equal(t, []string{
			"PID cmd",
			"=== ===",
			"7   sleep",
			"12345 go   ",
		}, lines(&buf))
	})

	t.Run("header from type", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader(reflect.TypeOf(process{})))
		assert.Equal(t, []string{"PID cmd", "=== ==="}, lines(&buf))
	})

	t.Run("adapter interfaces", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := New(&buf)
		require.NoError(t, tbl.PrintHeader(reflect.TypeOf(labelled{})))
		require.NoError(t, tbl.Print(labelled{Label: "a"}))
		assert.Equal(t, []string{"LABEL", "=====", "<a>  "}, lines(&buf))
	})

	t.Run("multiple structs are not expanded", func(t *testing.T) {
		got := expandRow([]any{labelled{}, labelled{}})
		assert.Len(t, got, 2)
	})

	t.Run("nil pointer prints as one column", func(t *testing.T) {
		var p *process
		assert.Equal(t, []any{p}, expandRow([]any{p}))
	})
}

func TestPrintConcurrent(t *testing.T) {
	var buf bytes.Buffer
	tbl := New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tbl.Print("abc", "de")
		}()
	}
	wg.Wait()

	assert.Len(t, lines(&buf), 20)
	assert.Equal(t, []int{3, 2}, tbl.Widths())
}
