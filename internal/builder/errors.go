package builder

import (
	"errors"
	"fmt"
)

// ErrDuplicateHaplogroupName is matched by every DuplicateHaplogroupNameError.
var ErrDuplicateHaplogroupName = errors.New("duplicate haplogroup name")

// DuplicateHaplogroupNameError reports a row that offers more than one
// haplogroup name. It is fatal: the build stops at that row.
type DuplicateHaplogroupNameError struct {
	First  string
	Second string
	// Row is the 1-based index of the offending row among all processed rows,
	// or 0 when the error did not come from ProcessRow.
	Row int
}

func (e *DuplicateHaplogroupNameError) Error() string {
	msg := fmt.Sprintf("%s: %s <=> %s", ErrDuplicateHaplogroupName, e.First, e.Second)
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	return msg
}

// Is makes errors.Is(err, ErrDuplicateHaplogroupName) succeed.
func (e *DuplicateHaplogroupNameError) Is(target error) bool {
	return target == ErrDuplicateHaplogroupName
}

// Warning is an advisory raised when an accepted haplogroup name looks like
// a mutation notation. It never stops the build.
type Warning struct {
	Candidate string
	Row       int
}

func (w Warning) String() string {
	return fmt.Sprintf("check if %q is haplogroup name or not", w.Candidate)
}
