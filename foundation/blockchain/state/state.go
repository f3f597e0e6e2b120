// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/chatchain/foundation/blockchain/projection"
	"github.com/ardanlabs/chatchain/foundation/blockchain/storage/memory"
)

// Set of errors returned by ledger operations.
var (
	ErrDuplicateAddress       = errors.New("user already exists")
	ErrInsufficientRewardPool = errors.New("insufficient reward pool")
	ErrUserNotFound           = errors.New("user not found")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing background support for the ledger.
type Worker interface {
	Shutdown()
	SignalAudit()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the chain and the projection derived from it. Every
// mutation is committed under the write lock so readers never observe the
// chain and the projection out of step.
type State struct {
	mu sync.RWMutex

	genesis    genesis.Genesis
	evHandler  EventHandler
	db         *database.Database
	projection *projection.Projection
	rewardPool uint64

	Worker Worker
}

// New constructs a new ledger, writing the genesis block if the storage is
// empty and building the projection from the stored chain.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	strg := cfg.Storage
	if strg == nil {
		var err error
		if strg, err = memory.New(); err != nil {
			return nil, err
		}
	}

	genesisBlock, err := cfg.Genesis.Block()
	if err != nil {
		return nil, fmt.Errorf("genesis block: %w", err)
	}

	db, err := database.New(strg, genesisBlock, ev)
	if err != nil {
		return nil, err
	}

	blocks, err := db.Copy()
	if err != nil {
		return nil, err
	}

	// The live projection starts from a replay of what is stored, which for
	// a new chain is the genesis block alone. This keeps the incremental
	// path and a later rebuild in agreement from the first block.
	proj := projection.New()
	report := proj.Replay(blocks)
	for _, num := range report.Skipped {
		ev("state: New: WARNING: blk[%d]: skipped undecodable payload", num)
	}

	spent := spentRewards(blocks)
	if spent > cfg.Genesis.RewardPool {
		return nil, fmt.Errorf("stored chain spends %d rewards, pool holds %d", spent, cfg.Genesis.RewardPool)
	}

	state := State{
		genesis:    cfg.Genesis,
		evHandler:  ev,
		db:         db,
		projection: proj,
		rewardPool: cfg.Genesis.RewardPool - spent,
	}

	ev("state: New: ledger ready: blocks[%d]: pool[%d]: difficulty[%d]", len(blocks), state.rewardPool, cfg.Genesis.Difficulty)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the ledger.

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all background activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.db.Close()
}

// =============================================================================

// spentRewards totals the rewards already recorded in the blocks.
func spentRewards(blocks []database.Block) uint64 {
	var spent uint64
	for _, block := range blocks {
		tx, err := database.DecodeTx(block.Data)
		if err != nil {
			continue
		}

		if reward, ok := tx.(database.RewardIssued); ok {
			spent += reward.RewardAmount
		}
	}

	return spent
}
