package types

import "errors"

// Error taxonomy shared by every stage of the pipeline. Callers match with
// errors.Is; producers wrap with context.
var (
	// ErrUnreadableSource means the source file could not be opened or its
	// format is not supported. Aborts that source only.
	ErrUnreadableSource = errors.New("unreadable source")

	// ErrMalformedSource means the file opened but could not be parsed.
	ErrMalformedSource = errors.New("malformed source")

	// ErrMissingColumns means a source lacks columns its normalizer requires.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrUnrecognizedArea marks a row whose city cannot be mapped to a site.
	ErrUnrecognizedArea = errors.New("unrecognized area")

	// ErrUnknownDistributor means no normalizer is registered for a name.
	ErrUnknownDistributor = errors.New("unknown distributor")

	// ErrMissingProductMapping aborts a ledger submission.
	ErrMissingProductMapping = errors.New("missing product mapping")
)
