package events_test

import (
	"testing"

	"github.com/ardanlabs/chatchain/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan events out to subscribers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two subscribers are registered.", testID)
		{
			evts := events.New()

			a := evts.Acquire("a")
			b := evts.Acquire("b")

			if evts.Acquire("a") != a {
				t.Fatalf("\t%s\tTest %d:\tShould return the same channel for the same id.", failed, testID)
			}
			if evts.Subscribers() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould count two subscribers: %d", failed, testID, evts.Subscribers())
			}
			t.Logf("\t%s\tTest %d:\tShould track each subscriber once.", success, testID)

			evts.Send("viewer: block: {}")

			if got := <-a; got != "viewer: block: {}" {
				t.Fatalf("\t%s\tTest %d:\tShould deliver to a: %s", failed, testID, got)
			}
			if got := <-b; got != "viewer: block: {}" {
				t.Fatalf("\t%s\tTest %d:\tShould deliver to b: %s", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould deliver to every subscriber.", success, testID)

			if err := evts.Release("a"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould release a: %v", failed, testID, err)
			}
			if _, open := <-a; open {
				t.Fatalf("\t%s\tTest %d:\tShould close a released channel.", failed, testID)
			}
			if err := evts.Release("a"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to release an unknown id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould release a subscriber once.", success, testID)

			for i := 0; i < 200; i++ {
				evts.Send("x")
			}
			if n := len(b); n != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould drop events for a slow subscriber: %d", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould not block on a slow subscriber.", success, testID)

			evts.Shutdown()
			if evts.Subscribers() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould remove every subscriber on shutdown.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove every subscriber on shutdown.", success, testID)
		}
	}
}
