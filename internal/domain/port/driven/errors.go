package driven

import "errors"

// ErrNotFound indicates a reference or path that does not exist in the
// repository. Callers treat it as legitimate "no content", never as a failure
// of the pass.
var ErrNotFound = errors.New("reference or path not found")

// ErrGatewayUnavailable indicates the git process could not be invoked at all.
// This is fatal for the pass: no group-level result can be trusted without a
// working gateway.
var ErrGatewayUnavailable = errors.New("git gateway unavailable")
