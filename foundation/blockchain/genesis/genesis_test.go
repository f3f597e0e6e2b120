package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a chain from the genesis configuration.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen using the default configuration.", testID)
		{
			gen := genesis.Default()

			block, err := gen.Block()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the genesis block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to build the genesis block.", success, testID)

			if block.Index != 0 || block.PrevHash != "0" || !block.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould be block 0 linked to \"0\": %s", failed, testID, block)
			}
			t.Logf("\t%s\tTest %d:\tShould be block 0 linked to \"0\".", success, testID)

			tx, err := database.DecodeTx(block.Data)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould carry a transaction: %v", failed, testID, err)
			}

			reg, ok := tx.(database.UserRegister)
			if !ok || reg.Address != "genesis" || reg.Username != "Genesis User" || reg.PublicKey != "genesis_key" || reg.TokenBalance != 1_000_000 {
				t.Fatalf("\t%s\tTest %d:\tShould register the genesis account: %+v", failed, testID, tx)
			}
			t.Logf("\t%s\tTest %d:\tShould register the genesis account.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen loading a file.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty":1,"reward_pool":500}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

			if gen.Difficulty != 1 || gen.RewardPool != 500 || gen.RegistrationBonus != 100 || gen.Account.Address != "genesis" {
				t.Fatalf("\t%s\tTest %d:\tShould keep defaults for missing values: %+v", failed, testID, gen)
			}
			t.Logf("\t%s\tTest %d:\tShould keep defaults for missing values.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the difficulty can't be met.", testID)
		{
			gen := genesis.Default()
			gen.Difficulty = 65

			if err := gen.Validate(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the configuration.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the configuration.", success, testID)
		}
	}
}
