package atable

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// DefaultResetWindow is the number of prints between width resets.
const DefaultResetWindow = 100

// ErrInvalidWindow is returned for a reset window that is not positive.
var ErrInvalidWindow = errors.New("reset window must be positive")

// SlidingTable wraps a Table and periodically replaces its column widths with
// the widths seen since the previous boundary. Columns widened by a single
// outlier row eventually shrink back, at the cost of a visible width change
// every window rows.
type SlidingTable struct {
	mu      sync.Mutex
	table   *Table
	window  int
	counter int
	pending []int
}

// NewSliding returns a SlidingTable that resets its widths every window
// prints. Options are those accepted by New.
func NewSliding(out io.Writer, window int, opts ...Option) (*SlidingTable, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	return &SlidingTable{
		table:  New(out, opts...),
		window: window,
	}, nil
}

// Print writes one row like Table.Print and folds its widths into the
// pending window. On every window-th print the pending widths become the
// table's widths.
func (s *SlidingTable) Print(cols ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := stringify(expandRow(cols))

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	widths, err := s.table.printRow(row)
	if widths != nil {
		s.pending = MergeWidths(s.pending, widths)
	}
	if err != nil {
		return err
	}

	s.counter++
	if s.counter%s.window == 0 {
		s.table.setWidths(s.pending)
		s.pending = nil
	}
	return nil
}

// PrintHeader prints a header and its separator row. Both rows count
// towards the window.
func (s *SlidingTable) PrintHeader(cols ...any) error {
	return s.PrintHeaderWith(s.table.headerSeparator, cols...)
}

// PrintHeaderWith is PrintHeader with an explicit separator.
func (s *SlidingTable) PrintHeaderWith(separator string, cols ...any) error {
	header, sepRow := headerRows(separator, cols)
	if err := s.Print(header...); err != nil {
		return err
	}
	return s.Print(sepRow...)
}

// Reset forgets the table widths, the pending widths and the print count.
func (s *SlidingTable) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Reset()
	s.pending = nil
	s.counter = 0
}

// Widths returns a copy of the widths rows are currently justified to.
func (s *SlidingTable) Widths() []int {
	return s.table.Widths()
}

// Pending returns a copy of the widths accumulated since the last boundary.
func (s *SlidingTable) Pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pending...)
}

// Count returns the number of rows printed since creation or Reset.
func (s *SlidingTable) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Window returns the reset window.
func (s *SlidingTable) Window() int {
	return s.window
}
