package ingest

import (
	"fmt"

	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// DataError describes one bad row or column in a player source
type DataError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *DataError) Error() string {
	msg := e.Reason
	switch {
	case e.Field != "" && e.Value != "":
		msg = fmt.Sprintf("%s %q: %s", e.Field, e.Value, msg)
	case e.Field != "":
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return utils.ErrInvalidInput
}
