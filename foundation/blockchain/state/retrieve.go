package state

import (
	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/genesis"
)

// Status represents the counters reported for the ledger.
type Status struct {
	BlockCount      int    `json:"block_count"`
	UserCount       int    `json:"user_count"`
	OnlineCount     int    `json:"online_count"`
	ConnectionCount int    `json:"connection_count"`
	TotalRewards    uint64 `json:"total_rewards"`
	IsValid         bool   `json:"is_valid"`
	Difficulty      uint   `json:"difficulty"`
	LatestHash      string `json:"latest_hash"`
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveChainLength returns the number of blocks in the chain.
func (s *State) RetrieveChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Len()
}

// RetrieveRewardPool returns the tokens left in the reward pool.
func (s *State) RetrieveRewardPool() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rewardPool
}

// RetrieveStatus returns the ledger counters and the result of verifying
// the chain.
func (s *State) RetrieveStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		BlockCount:      s.db.Len(),
		UserCount:       s.projection.UserCount(),
		OnlineCount:     s.projection.OnlineCount(),
		ConnectionCount: s.projection.ConnectionCount(),
		TotalRewards:    s.rewardPool,
		IsValid:         s.verify() == nil,
		Difficulty:      s.genesis.Difficulty,
		LatestHash:      s.db.LatestBlock().Hash,
	}
}

// =============================================================================

// IsValid reports whether every block's hash matches its contents and links
// to the block before it.
func (s *State) IsValid() bool {
	return s.Verify() == nil
}

// Verify walks the chain and returns the first integrity failure.
func (s *State) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.verify()
}

// VerifyStrict performs Verify and also requires every block after genesis
// to satisfy the configured difficulty.
func (s *State) VerifyStrict() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks, err := s.db.Copy()
	if err != nil {
		return err
	}

	return database.VerifyStrict(blocks, s.genesis.Difficulty)
}

// verify must be called with a lock held.
func (s *State) verify() error {
	blocks, err := s.db.Copy()
	if err != nil {
		return err
	}

	return database.Verify(blocks)
}
