package table

import (
	"fmt"
	"strings"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
)

// BadRow is an error for a single source row that could not be converted to a station record. Row holds whatever
// could be read and Index is the row's 1 based position in the source.
type BadRow struct {
	Row     *cavefile.Record
	Index   int
	Details []string
}

// NewBadRow creates a BadRow instance with a given row and error details
func NewBadRow(r *cavefile.Record, index int, details ...string) *BadRow {
	return &BadRow{r, index, details}
}

// IsBadRow takes an error and returns whether it is a BadRow
func IsBadRow(err error) bool {
	_, ok := err.(*BadRow)

	return ok
}

// GetBadRowRow will retrieve the Row from the BadRow error
func GetBadRowRow(err error) *cavefile.Record {
	br, ok := err.(*BadRow)

	if !ok {
		panic("Call IsBadRow prior to trying to get the BadRowRow")
	}

	return br.Row
}

// Error returns a string with error details.
func (br *BadRow) Error() string {
	return fmt.Sprintf("row %d: %s", br.Index, strings.Join(br.Details, "; "))
}
