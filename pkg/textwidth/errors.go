package textwidth

import (
	"errors"
	"fmt"

	"golang.org/x/text/width"
)

// ErrUnknownWidthCategory is matched by every *UnknownWidthCategoryError.
var ErrUnknownWidthCategory = errors.New("unknown east asian width category")

// UnknownWidthCategoryError reports a rune whose East Asian Width category
// has no cell width assigned.
type UnknownWidthCategoryError struct {
	Rune rune
	Kind width.Kind
}

func (e *UnknownWidthCategoryError) Error() string {
	return fmt.Sprintf("%s: %q (%U) has category %s", ErrUnknownWidthCategory, e.Rune, e.Rune, e.Kind)
}

func (e *UnknownWidthCategoryError) Is(target error) bool {
	return target == ErrUnknownWidthCategory
}
