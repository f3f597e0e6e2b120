package signature_test

import (
	"testing"

	"github.com/ardanlabs/chatchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Digest(t *testing.T) {
	type table struct {
		name  string
		nonce uint64
		hash  string
	}

	tt := []table{
		{name: "nonce0", nonce: 0, hash: "63d2d3c66b452795792c72121146195e098c144c14afd9175e31c72418e12772"},
		{name: "nonce1", nonce: 1, hash: "7463e62e3e4495aa7c3284bac240d07053f1d854a79e4c3d98525ceefaba5a17"},
	}

	t.Log("Given the need to hash block fields.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen hashing with nonce %d.", testID, tst.nonce)
				{
					h := signature.Digest(1, "2024-01-01T00:00:00Z", "data", signature.ZeroHash, tst.nonce)
					if h != tst.hash {
						t.Logf("\t\tTest %d:\tgot: %s", testID, h)
						t.Logf("\t\tTest %d:\texp: %s", testID, tst.hash)
						t.Fatalf("\t%s\tTest %d:\tShould get back the right digest.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right digest.", success, testID)

					if len(h) != signature.DigestLength {
						t.Fatalf("\t%s\tTest %d:\tShould get a %d character digest: %d", failed, testID, signature.DigestLength, len(h))
					}
					t.Logf("\t%s\tTest %d:\tShould get a %d character digest.", success, testID, signature.DigestLength)

					if again := signature.Digest(1, "2024-01-01T00:00:00Z", "data", signature.ZeroHash, tst.nonce); again != h {
						t.Fatalf("\t%s\tTest %d:\tShould get back the same digest twice.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same digest twice.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_IsSolved(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		hash       string
		solved     bool
	}

	tt := []table{
		{name: "zero", difficulty: 0, hash: "f00d", solved: true},
		{name: "one", difficulty: 1, hash: "0f0d", solved: true},
		{name: "two-miss", difficulty: 2, hash: "0f0d", solved: false},
		{name: "two-hit", difficulty: 2, hash: "00fd", solved: true},
		{name: "too-long", difficulty: 5, hash: "0000", solved: false},
	}

	t.Log("Given the need to check a hash against a difficulty.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen checking %q at difficulty %d.", testID, tst.hash, tst.difficulty)
				{
					if got := signature.IsSolved(tst.difficulty, tst.hash); got != tst.solved {
						t.Fatalf("\t%s\tTest %d:\tShould get solved=%v, got %v.", failed, testID, tst.solved, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get solved=%v.", success, testID, tst.solved)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
