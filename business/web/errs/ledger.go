package errs

import (
	"context"
	"net/http"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
)

// ledgerMappings binds the errors the ledger returns to HTTP status codes.
var ledgerMappings = []Mapping{
	{Err: state.ErrDuplicateAddress, Status: http.StatusConflict},
	{Err: state.ErrUserNotFound, Status: http.StatusNotFound},
	{Err: state.ErrInsufficientRewardPool, Status: http.StatusUnprocessableEntity},
	{Err: database.ErrMalformedTx, Status: http.StatusBadRequest},
	{Err: context.DeadlineExceeded, Status: http.StatusServiceUnavailable},
	{Err: context.Canceled, Status: http.StatusServiceUnavailable},
}

// FromLedger converts an error returned by the ledger into a trusted error
// when it is one the client can act on.
func FromLedger(err error) error {
	return Translate(err, ledgerMappings...)
}
