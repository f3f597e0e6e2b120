package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
)

// errTipMoved is returned by commit when another batch landed while this
// batch was being mined.
var errTipMoved = errors.New("chain tip moved while mining")

// Receipt describes the blocks one ledger operation appended and anything
// that did not go as the caller might expect.
type Receipt struct {
	Blocks   []database.Block `json:"blocks"`
	Warnings []string         `json:"warnings,omitempty"`
}

// batch is the set of transactions produced by one logical operation. The
// blocks for a batch are appended all together or not at all.
type batch struct {
	tip      database.Block
	txs      []database.Tx
	cost     uint64
	warnings []string
}

// planFunc builds a batch against the current projection and reward pool.
// It is always called with the read lock held.
type planFunc func(b *batch) error

// =============================================================================

// execute plans, mines and commits a batch. Mining happens outside of any
// lock. If the chain moved while mining, the batch is planned again against
// the new state since its preconditions may no longer hold.
func (s *State) execute(ctx context.Context, op string, plan planFunc) (Receipt, error) {
	s.evHandler("state: %s: started", op)
	defer s.evHandler("state: %s: completed", op)

	for attempt := 1; ; attempt++ {
		b, err := s.plan(plan)
		if err != nil {
			return Receipt{}, err
		}

		if len(b.txs) == 0 {
			return Receipt{Blocks: []database.Block{}, Warnings: b.warnings}, nil
		}

		s.evHandler("state: %s: MINING: attempt[%d]: txs[%d]: tip[%d]", op, attempt, len(b.txs), b.tip.Index)

		blocks, err := s.mine(ctx, b)
		if err != nil {
			return Receipt{}, fmt.Errorf("%s: mining: %w", op, err)
		}

		receipt, err := s.commit(b, blocks)
		if err != nil {
			if errors.Is(err, errTipMoved) {
				s.evHandler("state: %s: MINING: tip moved, planning again", op)
				continue
			}
			return Receipt{}, fmt.Errorf("%s: commit: %w", op, err)
		}

		return receipt, nil
	}
}

// plan captures the tip and builds the batch under the read lock.
func (s *State) plan(plan planFunc) (*batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := batch{
		tip: s.db.LatestBlock(),
	}

	if err := plan(&b); err != nil {
		return nil, err
	}

	return &b, nil
}

// mine seals one block per transaction, each linked to the one before it.
func (s *State) mine(ctx context.Context, b *batch) ([]database.Block, error) {
	blocks := make([]database.Block, 0, len(b.txs))

	prev := b.tip
	for _, tx := range b.txs {
		data, err := database.EncodeTx(tx)
		if err != nil {
			return nil, err
		}

		block, err := database.POW(ctx, database.POWArgs{
			Difficulty: s.genesis.Difficulty,
			PrevBlock:  prev,
			Data:       data,
			EvHandler:  s.evHandler,
		})
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
		prev = block
	}

	return blocks, nil
}

// commit validates the mined blocks against the current tip and, if they
// still extend it, writes them and applies them to the projection.
func (s *State) commit(b *batch, blocks []database.Block) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.db.LatestBlock()
	if latest.Hash != b.tip.Hash {
		return Receipt{}, errTipMoved
	}

	// Validate the whole batch before anything is written.
	parent := latest
	for _, block := range blocks {
		if err := database.ValidateNextBlock(block, parent, s.genesis.Difficulty); err != nil {
			return Receipt{}, err
		}
		parent = block
	}

	if err := s.db.Write(blocks...); err != nil {
		return Receipt{}, err
	}

	s.rewardPool -= b.cost

	receipt := Receipt{
		Blocks:   blocks,
		Warnings: b.warnings,
	}

	// The projection is updated from the stored payloads, the same way a
	// rebuild reads them.
	for _, block := range blocks {
		effect, err := s.projection.ApplyBlock(block)
		if err != nil {
			s.evHandler("state: commit: WARNING: %s", err)
			continue
		}

		if effect.CreditLost {
			w := fmt.Sprintf("blk[%d]: reward credit lost, address is not registered", block.Index)
			s.evHandler("state: commit: WARNING: %s", w)
			receipt.Warnings = append(receipt.Warnings, w)
		}

		s.blockEvent(block)
	}

	return receipt, nil
}

// =============================================================================

// addReward adds a reward to the batch if the pool, less what the batch has
// already spent, can cover it. Otherwise the reward is dropped with a
// warning and the rest of the batch stands.
func (s *State) addReward(b *batch, address string, action string, amount uint64) bool {
	if s.rewardPool-b.cost < amount {
		w := fmt.Sprintf("%s reward of %d for %s skipped: %s", action, amount, address, ErrInsufficientRewardPool)
		s.evHandler("state: addReward: WARNING: %s", w)
		b.warnings = append(b.warnings, w)
		return false
	}

	b.txs = append(b.txs, database.RewardIssued{
		Reward: database.Reward{
			UserAddress:  address,
			Action:       action,
			RewardAmount: amount,
			TimeStamp:    now(),
		},
	})
	b.cost += amount

	return true
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
