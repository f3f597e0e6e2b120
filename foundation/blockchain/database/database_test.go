package database_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/storage/memory"
)

func Test_Database(t *testing.T) {
	t.Log("Given the need to store the chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen opening empty storage.", testID)
		{
			storage, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create storage: %v", failed, testID, err)
			}

			chain := buildChain(t, 3, 1)

			db, err := database.New(storage, chain[0], nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the database: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to open the database.", success, testID)

			if db.Len() != 1 || db.LatestBlock().Hash != chain[0].Hash {
				t.Fatalf("\t%s\tTest %d:\tShould hold only the genesis block: len[%d]", failed, testID, db.Len())
			}
			t.Logf("\t%s\tTest %d:\tShould hold only the genesis block.", success, testID)

			if err := db.Write(chain[1:]...); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the blocks: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the blocks.", success, testID)

			blocks, err := db.Copy()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to copy the chain: %v", failed, testID, err)
			}

			if len(blocks) != 4 || blocks[3].Hash != db.LatestBlock().Hash {
				t.Fatalf("\t%s\tTest %d:\tShould get back every block: got %d", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould get back every block.", success, testID)

			if err := database.Verify(blocks); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould store a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould store a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing a block that does not link to the tip.", testID)
		{
			storage, _ := memory.New()
			chain := buildChain(t, 3, 0)

			db, err := database.New(storage, chain[0], nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the database: %v", failed, testID, err)
			}

			err = db.Write(chain[1], chain[3])
			if !errors.Is(err, database.ErrBlockOutOfOrder) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the batch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the batch.", success, testID)

			if db.Len() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not write any block of the batch: len[%d]", failed, testID, db.Len())
			}
			t.Logf("\t%s\tTest %d:\tShould not write any block of the batch.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen opening storage that holds a tampered chain.", testID)
		{
			storage, _ := memory.New()
			chain := buildChain(t, 2, 0)
			chain[2].Data = "changed"

			for _, block := range chain {
				if err := storage.Write(block); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to seed storage: %v", failed, testID, err)
				}
			}

			_, err := database.New(storage, chain[0], nil)
			if !errors.Is(err, database.ErrTamperedBlock) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to open: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to open.", success, testID)
		}
	}
}
