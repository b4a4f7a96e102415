package providers

import "errors"

// Error taxonomy shared by all adapters. Callers match with errors.Is; the
// wrapping error carries the upstream status/body for logging.
var (
	// ErrProviderUnavailable means the upstream platform was unreachable or
	// answered with a non-success status. Fatal to the current facility.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidUpstreamData means a listing or detail record could not be
	// normalized. Individual records are skipped with a warning; only a fully
	// undecodable response surfaces this to the caller.
	ErrInvalidUpstreamData = errors.New("invalid upstream data")

	// ErrCyclicResourceGraph means a provider's map graph referenced a map
	// already on the current descent chain. This indicates a provider bug and
	// aborts resolution.
	ErrCyclicResourceGraph = errors.New("cyclic resource graph")
)
