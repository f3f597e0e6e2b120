package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/signature"
)

// Block represents a single sealed entry in the chain. Each block carries
// exactly one serialized transaction in Data.
type Block struct {
	Index     uint64 `json:"index"`         // Position in the chain, genesis is 0.
	TimeStamp string `json:"timestamp"`     // RFC3339 creation time, fixed before mining.
	Data      string `json:"data"`          // Serialized transaction payload.
	PrevHash  string `json:"previous_hash"` // Hash of the previous block, "0" for genesis.
	Hash      string `json:"hash"`          // Digest of the fields above plus the nonce.
	Nonce     uint64 `json:"nonce"`         // Value identified to solve the hash solution.
}

// NewBlock constructs an unsealed block. The timestamp is captured here and
// never refreshed while mining.
func NewBlock(index uint64, data string, prevHash string) Block {
	b := Block{
		Index:     index,
		TimeStamp: time.Now().UTC().Format(time.RFC3339Nano),
		Data:      data,
		PrevHash:  prevHash,
		Nonce:     0,
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock(data string) Block {
	return NewBlock(0, data, signature.ZeroHash)
}

// ComputeHash returns the digest over the stored fields of the block.
func (b Block) ComputeHash() string {
	return signature.Digest(b.Index, b.TimeStamp, b.Data, b.PrevHash, b.Nonce)
}

// IsValid reports whether the stored hash was derived from the stored
// fields. It does not check the difficulty prefix.
func (b Block) IsValid() bool {
	return b.Hash == b.ComputeHash()
}

// IsSealed reports whether the stored hash satisfies the difficulty.
func (b Block) IsSealed(difficulty uint) bool {
	return signature.IsSolved(difficulty, b.Hash)
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d]: hash[%s]: prev[%s]: nonce[%d]", b.Index, b.Hash, b.PrevHash, b.Nonce)
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Difficulty uint
	PrevBlock  Block
	Data       string
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block on top of the previous block and performs the
// work to find a nonce that solves the cryptographic POW puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	nb := NewBlock(args.PrevBlock.Index+1, args.Data, args.PrevBlock.Hash)

	if err := nb.performPOW(ctx, args.Difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]", b.Index)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		if signature.IsSolved(difficulty, b.Hash) {
			ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevHash, b.Hash, attempts)
			return nil
		}

		b.Nonce++
		b.Hash = b.ComputeHash()
	}
}
