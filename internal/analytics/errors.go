package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced to the request layer. Each one is local to a
// single computation; a failed read never touches the underlying dataset.
var (
	// ErrStateNotFound is returned when a quarter comparison's state filter
	// matches no aggregate rows.
	ErrStateNotFound = errors.New("no data for selected state")

	// ErrDistributorNotFound is returned when a trend query names a
	// distributor absent from the aggregate table.
	ErrDistributorNotFound = errors.New("no data found for selected distributor")

	// ErrInsufficientFeatures is returned when the dataset carries fewer than
	// two numeric columns, which is too few for a correlation matrix.
	ErrInsufficientFeatures = errors.New("not enough numeric features")

	// ErrNoImportances is returned when root-cause reporting is requested
	// before the model collaborator has supplied an importance list.
	ErrNoImportances = errors.New("feature importances not available")
)

// SchemaError reports required columns absent from the input schema. It is
// detected once, before aggregation, never per row.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
