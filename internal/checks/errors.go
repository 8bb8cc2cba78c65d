package checks

import (
	"fmt"
	"strings"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
)

// ColumnNotFoundError reports a check referencing a column the dataset does
// not have. It is an input-contract fault, not a failed result.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// TypeMismatchError reports a check applied to a column whose kind it cannot
// evaluate, e.g. a numeric range check on a string column or an unparseable
// timestamp cell.
type TypeMismatchError struct {
	Column string
	Want   string
	Got    dataset.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q: expected %s, got %s", e.Column, e.Want, e.Got)
}
