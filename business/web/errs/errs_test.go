package errs_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/chatchain/business/web/errs"
	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_FromLedger(t *testing.T) {
	t.Log("Given the need to report ledger errors with the right status.")
	{
		tt := []struct {
			name   string
			err    error
			status int
		}{
			{"duplicate", fmt.Errorf("alice: %w", state.ErrDuplicateAddress), http.StatusConflict},
			{"notfound", state.ErrUserNotFound, http.StatusNotFound},
			{"pool", fmt.Errorf("pool 1, amount 2: %w", state.ErrInsufficientRewardPool), http.StatusUnprocessableEntity},
			{"malformed", fmt.Errorf("blk[3]: %w", database.ErrMalformedTx), http.StatusBadRequest},
			{"deadline", fmt.Errorf("RegisterUser: mining: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
			{"canceled", context.Canceled, http.StatusServiceUnavailable},
		}

		for testID, test := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen translating a %s error.", testID, test.name)
				{
					err := errs.FromLedger(test.err)

					trusted := errs.GetTrusted(err)
					if trusted == nil || trusted.Status != test.status {
						t.Fatalf("\t%s\tTest %d:\tShould map to %d: %v", failed, testID, test.status, trusted)
					}
					t.Logf("\t%s\tTest %d:\tShould map to %d.", success, testID, test.status)

					if !errors.Is(err, test.err) || err.Error() != test.err.Error() {
						t.Fatalf("\t%s\tTest %d:\tShould keep the original error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould keep the original error.", success, testID)
				}
			}
			t.Run(test.name, tf)
		}

		other := errors.New("disk on fire")
		if err := errs.FromLedger(other); errs.IsTrusted(err) || err != other {
			t.Fatalf("\t%s\tShould leave an unknown error untrusted.", failed)
		}
		if errs.FromLedger(nil) != nil {
			t.Fatalf("\t%s\tShould leave a nil error alone.", failed)
		}
		t.Logf("\t%s\tShould leave unknown errors for the 500 path.", success)
	}
}
