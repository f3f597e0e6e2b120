package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Memory(t *testing.T) {
	t.Log("Given the need to keep blocks in memory.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen writing and reading blocks.", testID)
		{
			m, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create storage: %v", failed, testID, err)
			}

			genesis := database.NewGenesisBlock("genesis")
			next := database.NewBlock(1, "next", genesis.Hash)

			if err := m.Write(next); !errors.Is(err, memory.ErrOutOfOrder) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block out of order: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block out of order.", success, testID)

			for _, block := range []database.Block{genesis, next} {
				if err := m.Write(block); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, block.Index, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write blocks in order.", success, testID)

			got, err := m.GetBlock(1)
			if err != nil || got.Hash != next.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read block 1: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to read block 1.", success, testID)

			if _, err := m.GetBlock(2); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find block 2: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find block 2.", success, testID)

			var count int
			iter := m.ForEach()
			for _, err := iter.Next(); !iter.Done(); _, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould iterate without error: %v", failed, testID, err)
				}
				count++
			}
			if count != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould iterate over 2 blocks: got %d", failed, testID, count)
			}
			t.Logf("\t%s\tTest %d:\tShould iterate over 2 blocks.", success, testID)

			if _, err := iter.Next(); !errors.Is(err, memory.ErrEndOfChain) {
				t.Fatalf("\t%s\tTest %d:\tShould report the end of the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould report the end of the chain.", success, testID)

			if err := m.Reset(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %v", failed, testID, err)
			}
			if _, err := m.GetBlock(0); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould be empty after reset: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be empty after reset.", success, testID)
		}
	}
}
