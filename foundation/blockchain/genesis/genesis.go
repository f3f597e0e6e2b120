// Package genesis maintains access to the genesis configuration.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/signature"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date              time.Time `json:"date"`
	Difficulty        uint      `json:"difficulty"`         // Number of leading '0' hex characters required in a sealed hash.
	RewardPool        uint64    `json:"reward_pool"`        // Tokens available to be paid out as rewards.
	RegistrationBonus uint64    `json:"registration_bonus"` // Paid once to every newly registered user.
	OnlineReward      uint64    `json:"online_reward"`      // Paid each time a user reports as online.
	ConnectReward     uint64    `json:"connect_reward"`     // Paid to both ends of a recorded connection.
	Account           Account   `json:"account"`
}

// Account represents the reserved account recorded in the genesis block.
type Account struct {
	Address   string `json:"address"`
	Username  string `json:"username"`
	PublicKey string `json:"public_key"`
}

// Default returns the reference genesis configuration.
func Default() Genesis {
	return Genesis{
		Date:              time.Now().UTC(),
		Difficulty:        2,
		RewardPool:        1_000_000,
		RegistrationBonus: 100,
		OnlineReward:      10,
		ConnectReward:     20,
		Account: Account{
			Address:   "genesis",
			Username:  "Genesis User",
			PublicKey: "genesis_key",
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the configuration can produce a working chain.
func (g Genesis) Validate() error {
	if g.Difficulty > signature.DigestLength {
		return fmt.Errorf("difficulty %d exceeds digest length %d", g.Difficulty, signature.DigestLength)
	}

	if g.Account.Address == "" {
		return fmt.Errorf("genesis account address is required")
	}

	return nil
}

// Block constructs the genesis block. Its payload registers the reserved
// account holding the full reward pool.
func (g Genesis) Block() (database.Block, error) {
	tx := database.UserRegister{
		UserProfile: database.UserProfile{
			Address:      g.Account.Address,
			Username:     g.Account.Username,
			PublicKey:    g.Account.PublicKey,
			LastSeen:     g.Date.UTC(),
			Reputation:   0,
			TokenBalance: g.RewardPool,
		},
	}

	data, err := database.EncodeTx(tx)
	if err != nil {
		return database.Block{}, err
	}

	return database.NewGenesisBlock(data), nil
}
