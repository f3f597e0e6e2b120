package worker_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
	"github.com/ardanlabs/chatchain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// recorder captures the events raised by the worker.
type recorder struct {
	ch chan string
}

func (r *recorder) handler(v string, args ...any) {
	select {
	case r.ch <- fmt.Sprintf(v, args...):
	default:
	}
}

// waitFor blocks until an event containing the text arrives.
func (r *recorder) waitFor(text string, d time.Duration) (string, bool) {
	timeout := time.After(d)
	for {
		select {
		case s := <-r.ch:
			if strings.Contains(s, text) {
				return s, true
			}
		case <-timeout:
			return "", false
		}
	}
}

// =============================================================================

func Test_Audit(t *testing.T) {
	t.Log("Given the need to audit the ledger in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen an audit is signaled.", testID)
		{
			gen := genesis.Default()
			gen.Difficulty = 1

			st, err := state.New(state.Config{Genesis: gen})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the ledger: %v", failed, testID, err)
			}

			if _, err := st.RegisterUser(context.Background(), "alice", "Alice", "pk"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to register: %v", failed, testID, err)
			}

			rec := recorder{ch: make(chan string, 1000)}
			w := worker.Run(st, 0, rec.handler)

			if st.Worker == nil {
				t.Fatalf("\t%s\tTest %d:\tShould register itself with the ledger.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould register itself with the ledger.", success, testID)

			w.SignalAudit()

			msg, ok := rec.waitFor("AUDIT: blocks[", 5*time.Second)
			if !ok {
				t.Fatalf("\t%s\tTest %d:\tShould run the audit.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould run the audit.", success, testID)

			if !strings.Contains(msg, "blocks[3]") || !strings.Contains(msg, "valid[true]") || !strings.Contains(msg, "consistent[true]") {
				t.Fatalf("\t%s\tTest %d:\tShould find a sound ledger: %s", failed, testID, msg)
			}
			t.Logf("\t%s\tTest %d:\tShould find a sound ledger.", success, testID)

			if err := st.Shutdown(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould shut down cleanly: %v", failed, testID, err)
			}

			if _, ok := rec.waitFor("auditOperations: G completed", 5*time.Second); !ok {
				t.Fatalf("\t%s\tTest %d:\tShould stop the audit goroutine.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould stop the audit goroutine.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen audits run on an interval.", testID)
		{
			gen := genesis.Default()
			gen.Difficulty = 0

			st, err := state.New(state.Config{Genesis: gen})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the ledger: %v", failed, testID, err)
			}

			rec := recorder{ch: make(chan string, 1000)}
			worker.Run(st, 10*time.Millisecond, rec.handler)
			defer st.Shutdown()

			for i := 0; i < 2; i++ {
				if _, ok := rec.waitFor("AUDIT: completed", 5*time.Second); !ok {
					t.Fatalf("\t%s\tTest %d:\tShould run audit %d on the ticker.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould run audits on the ticker.", success, testID)
		}
	}
}
