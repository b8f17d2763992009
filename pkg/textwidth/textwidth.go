// Package textwidth measures how many terminal cells a string occupies and
// pads strings on the right to a target cell width.
package textwidth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// Mode selects how display width is computed.
type Mode int

const (
	// ModeVisual sums per-rune cells using the East Asian Width category.
	ModeVisual Mode = iota
	// ModeChars counts runes.
	ModeChars
	// ModeTerminal uses go-runewidth, which also knows about zero-width
	// combining marks and emoji.
	ModeTerminal
)

func (m Mode) String() string {
	switch m {
	case ModeVisual:
		return "visual"
	case ModeChars:
		return "chars"
	case ModeTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a user supplied name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "visual", "east-asian", "eastasian":
		return ModeVisual, nil
	case "chars", "char-count", "characters", "runes":
		return ModeChars, nil
	case "terminal", "runewidth":
		return ModeTerminal, nil
	default:
		return ModeVisual, fmt.Errorf("unknown width mode %q (want visual, chars or terminal)", name)
	}
}

// Measurer reports the display width of a string.
type Measurer interface {
	Width(s string) (int, error)
}

// Option configures a Measurer built by New.
type Option func(*options)

type options struct {
	unknownWidth int
}

// WithUnknownWidth makes visual measurement count runes whose East Asian
// Width category is not in the width table as n cells instead of failing.
// A negative n restores the strict behavior.
func WithUnknownWidth(n int) Option {
	return func(o *options) {
		o.unknownWidth = n
	}
}

// New returns the Measurer for mode.
func New(mode Mode, opts ...Option) Measurer {
	o := options{unknownWidth: -1}
	for _, opt := range opts {
		opt(&o)
	}
	switch mode {
	case ModeChars:
		return charMeasurer{}
	case ModeTerminal:
		return terminalMeasurer{}
	default:
		return visualMeasurer{unknownWidth: o.unknownWidth}
	}
}

// categoryCells is the display-width table: cells per East Asian Width
// category. Halfwidth (H) is deliberately absent.
var categoryCells = map[width.Kind]int{
	width.EastAsianWide:      2,
	width.EastAsianFullwidth: 2,
	width.EastAsianNarrow:    1,
	width.Neutral:            1,
	width.EastAsianAmbiguous: 1,
}

// DisplayWidth returns the number of cells s occupies, counting wide and
// fullwidth runes as two cells. It fails with an *UnknownWidthCategoryError
// for runes whose category has no entry in the width table.
func DisplayWidth(s string) (int, error) {
	return visualMeasurer{unknownWidth: -1}.Width(s)
}

// Justify pads s with spaces until it is target cells wide. Strings already
// at or beyond target are returned unchanged.
func Justify(m Measurer, s string, target int) (string, error) {
	w, err := m.Width(s)
	if err != nil {
		return "", err
	}
	if w >= target {
		return s, nil
	}
	return s + strings.Repeat(" ", target-w), nil
}

type visualMeasurer struct {
	unknownWidth int
}

func (v visualMeasurer) Width(s string) (int, error) {
	total := 0
	for _, r := range s {
		kind := width.LookupRune(r).Kind()
		cells, ok := categoryCells[kind]
		if !ok {
			if v.unknownWidth < 0 {
				return 0, &UnknownWidthCategoryError{Rune: r, Kind: kind}
			}
			cells = v.unknownWidth
		}
		total += cells
	}
	return total, nil
}

type charMeasurer struct{}

func (charMeasurer) Width(s string) (int, error) {
	return utf8.RuneCountInString(s), nil
}

type terminalMeasurer struct{}

func (terminalMeasurer) Width(s string) (int, error) {
	return runewidth.StringWidth(s), nil
}
