// Package database handles all the lower level support for maintaining the
// blockchain: blocks, proof of work, chain verification and the closed set
// of transactions recorded in block payloads.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the ordered set of blocks that make up the chain.
type Database struct {
	mu          sync.RWMutex
	genesis     Block
	latestBlock Block
	storage     Storage
}

// New constructs a new database over the storage. If the storage is empty
// the genesis block is written, otherwise the existing blocks are verified
// and the genesis block stored in them is kept.
func New(storage Storage, genesis Block, evHandler func(v string, args ...any)) (*Database, error) {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if genesis.Index != 0 {
		return nil, fmt.Errorf("genesis block must be number 0, got %d", genesis.Index)
	}

	db := Database{
		storage: storage,
	}

	var blocks []Block
	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	switch len(blocks) {
	case 0:
		evHandler("database: New: writing genesis: %s", genesis)
		if err := storage.Write(genesis); err != nil {
			return nil, fmt.Errorf("write genesis: %w", err)
		}
		db.genesis = genesis
		db.latestBlock = genesis

	default:
		evHandler("database: New: verifying stored chain: blocks[%d]", len(blocks))
		if err := Verify(blocks); err != nil {
			return nil, fmt.Errorf("stored chain: %w", err)
		}
		db.genesis = blocks[0]
		db.latestBlock = blocks[len(blocks)-1]
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Genesis returns the genesis block.
func (db *Database) Genesis() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.genesis
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Len returns the number of blocks in the chain.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return int(db.latestBlock.Index) + 1
}

// Write appends the blocks to the chain in order. Each block must link to
// the block before it. The caller is responsible for validating the blocks
// before calling Write.
func (db *Database) Write(blocks ...Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	// Check every link before anything is written so a bad batch leaves
	// the chain untouched.
	latest := db.latestBlock
	for _, block := range blocks {
		if block.Index != latest.Index+1 || block.PrevHash != latest.Hash {
			return &ChainError{Index: block.Index, Err: ErrBlockOutOfOrder}
		}
		latest = block
	}

	for _, block := range blocks {
		if err := db.storage.Write(block); err != nil {
			return err
		}
		db.latestBlock = block
	}

	return nil
}

// GetBlock returns the block with the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	return db.storage.GetBlock(num)
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() Iterator {
	return db.storage.ForEach()
}

// Copy returns a copy of every block in the chain in order.
func (db *Database) Copy() ([]Block, error) {
	blocks := make([]Block, 0, db.Len())

	iter := db.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil, errors.New("chain is empty")
	}

	return blocks, nil
}
