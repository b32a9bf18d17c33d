package payments

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed caller input. Handlers translate it to
// a 400 before any persistence or network side effect has happened.
var ErrValidation = errors.New("validation failed")

// ErrMissingOrderID is the one webhook input failure surfaced to the
// sender: no order identifier could be derived from either transport.
var ErrMissingOrderID = fmt.Errorf("%w: missing order_id or EdvironCollectRequestId", ErrValidation)

// GatewayError is a failed call to the payment gateway: network error,
// timeout, non-2xx response or a malformed body. The gateway's own
// status code and verbatim body are preserved for diagnostics.
type GatewayError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// HTTPStatus returns the status code callers should surface: the
// gateway's own code when one was received, 502 otherwise.
func (e *GatewayError) HTTPStatus() int {
	if e.StatusCode >= 400 {
		return e.StatusCode
	}
	return 502
}
