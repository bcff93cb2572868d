package errors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// formatError keeps all collected errors on one line so they fit a single log entry
func formatError(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}

	points := make([]string, len(es))
	for i, err := range es {
		points[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(es), strings.Join(points, "; "))
}

// FormatErrorOrNil returns nil for an empty err, else err with one-line formatting.
func FormatErrorOrNil(err *multierror.Error) error {
	if err != nil {
		err.ErrorFormat = formatError
	}
	return err.ErrorOrNil()
}
