// Package atable prints rows of text as aligned columns without knowing the
// full row set in advance. Every printed row widens the running per-column
// maximum and is left-justified against it, so columns stay aligned while
// rows stream in one at a time between other program output.
//
// Earlier rows may come out narrower than later ones: a column is only ever
// as wide as the widest value seen up to and including the current row.
package atable

import (
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/oakwood-commons/atable/pkg/textwidth"
)

const (
	// DefaultDelimiter joins justified columns.
	DefaultDelimiter = " "
	// DefaultHeaderSeparator is repeated under each header column.
	DefaultHeaderSeparator = "="
)

// Printer is implemented by Table and SlidingTable.
type Printer interface {
	Print(cols ...any) error
	PrintHeader(cols ...any) error
	PrintHeaderWith(separator string, cols ...any) error
	Reset()
	Widths() []int
}

var (
	_ Printer = (*Table)(nil)
	_ Printer = (*SlidingTable)(nil)
)

// Option configures a Table.
type Option func(*Table)

// WithDelimiter sets the string placed between columns.
func WithDelimiter(d string) Option {
	return func(t *Table) {
		t.delimiter = d
	}
}

// WithWidthMode selects how column text is measured.
func WithWidthMode(mode textwidth.Mode) Option {
	return func(t *Table) {
		t.measurer = textwidth.New(mode)
	}
}

// WithMeasurer installs a custom measurer, e.g. a lenient visual one.
func WithMeasurer(m textwidth.Measurer) Option {
	return func(t *Table) {
		if m != nil {
			t.measurer = m
		}
	}
}

// WithHeaderSeparator sets the character used for the row under headers.
func WithHeaderSeparator(sep string) Option {
	return func(t *Table) {
		t.headerSeparator = sep
	}
}

// Table is an adaptive-width table printer. It is safe for concurrent use;
// each Print measures, widens and writes its row as one step.
type Table struct {
	mu              sync.Mutex
	out             io.Writer
	delimiter       string
	headerSeparator string
	measurer        textwidth.Measurer
	widths          []int
}

// New returns a Table writing to out, or to os.Stdout when out is nil.
func New(out io.Writer, opts ...Option) *Table {
	if out == nil {
		out = os.Stdout
	}
	t := &Table{
		out:             out,
		delimiter:       DefaultDelimiter,
		headerSeparator: DefaultHeaderSeparator,
		measurer:        textwidth.New(textwidth.ModeVisual),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MergeWidths returns the elementwise maximum of old and next, treating
// missing trailing entries of the shorter slice as zero.
func MergeWidths(old, next []int) []int {
	n := max(len(old), len(next))
	merged := make([]int, n)
	for i := range merged {
		var a, b int
		if i < len(old) {
			a = old[i]
		}
		if i < len(next) {
			b = next[i]
		}
		merged[i] = max(a, b)
	}
	return merged
}

func measure(m textwidth.Measurer, cols []string) ([]int, error) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		w, err := m.Width(c)
		if err != nil {
			return nil, err
		}
		widths[i] = w
	}
	return widths, nil
}

// RecordWidths widens the column widths to fit cols. Nothing changes when a
// column cannot be measured.
func (t *Table) RecordWidths(cols []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.recordWidths(cols)
	return err
}

func (t *Table) recordWidths(cols []string) ([]int, error) {
	widths, err := measure(t.measurer, cols)
	if err != nil {
		return nil, err
	}
	t.widths = MergeWidths(t.widths, widths)
	return widths, nil
}

// Render justifies each column to its current width and joins them with the
// delimiter. Columns past the known widths are left as is.
func (t *Table) Render(cols []string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.render(cols)
}

func (t *Table) render(cols []string) (string, error) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if i >= len(t.widths) {
			parts[i] = c
			continue
		}
		justified, err := textwidth.Justify(t.measurer, c, t.widths[i])
		if err != nil {
			return "", err
		}
		parts[i] = justified
	}
	return strings.Join(parts, t.delimiter), nil
}

// Print writes one row. A single struct (or Row implementation) is expanded
// into its field values. Errors from the underlying writer are returned
// unchanged.
func (t *Table) Print(cols ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.printRow(stringify(expandRow(cols)))
	return err
}

// printRow records widths and writes the row. It returns the row's own
// measured widths once they have been recorded, even if the write fails.
func (t *Table) printRow(cols []string) ([]int, error) {
	widths, err := t.recordWidths(cols)
	if err != nil {
		return nil, err
	}
	line, err := t.render(cols)
	if err != nil {
		return widths, err
	}
	if _, err := io.WriteString(t.out, line+"\n"); err != nil {
		return widths, err
	}
	return widths, nil
}

// PrintHeader prints a header row followed by a separator row using the
// table's header separator. A single record value, record pointer or
// reflect.Type is expanded into its field names.
func (t *Table) PrintHeader(cols ...any) error {
	return t.PrintHeaderWith(t.headerSeparator, cols...)
}

// PrintHeaderWith is PrintHeader with an explicit separator.
func (t *Table) PrintHeaderWith(separator string, cols ...any) error {
	header, sepRow := headerRows(separator, cols)
	if err := t.Print(header...); err != nil {
		return err
	}
	return t.Print(sepRow...)
}

// headerRows returns the header columns and the separator row beneath them.
// Separator columns follow the header's rune count, not its display width.
func headerRows(separator string, cols []any) ([]any, []any) {
	names := stringify(expandHeader(cols))
	header := make([]any, len(names))
	sepRow := make([]any, len(names))
	for i, name := range names {
		header[i] = name
		sepRow[i] = strings.Repeat(separator, utf8.RuneCountInString(name))
	}
	return header, sepRow
}

// Reset forgets all column widths.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.widths = nil
}

// Widths returns a copy of the current column widths.
func (t *Table) Widths() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.widths...)
}

func (t *Table) setWidths(widths []int) {
	t.widths = widths
}
