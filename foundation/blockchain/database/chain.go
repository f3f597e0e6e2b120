package database

import (
	"errors"
	"fmt"
)

// Set of errors reported when walking a chain.
var (
	ErrTamperedBlock   = errors.New("block hash does not match block contents")
	ErrBrokenChainLink = errors.New("previous hash does not match parent block")
	ErrUnsealedBlock   = errors.New("block hash does not satisfy difficulty")
	ErrBlockOutOfOrder = errors.New("block is not the next number")
)

// ChainError identifies the block that failed verification.
type ChainError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("blk[%d]: %s", ce.Index, ce.Err)
}

// Unwrap provides access to the underlying sentinel error.
func (ce *ChainError) Unwrap() error {
	return ce.Err
}

// =============================================================================

// Verify walks the chain from the first block after genesis and returns the
// first integrity failure found. A chain holding only genesis is valid.
func Verify(chain []Block) error {
	for i := 1; i < len(chain); i++ {
		current := chain[i]

		if !current.IsValid() {
			return &ChainError{Index: current.Index, Err: ErrTamperedBlock}
		}

		if current.PrevHash != chain[i-1].Hash {
			return &ChainError{Index: current.Index, Err: ErrBrokenChainLink}
		}
	}

	return nil
}

// VerifyStrict performs Verify and also requires every block after genesis
// to carry a hash that satisfies the difficulty. This catches blocks that
// were hashed honestly but never mined.
func VerifyStrict(chain []Block, difficulty uint) error {
	if err := Verify(chain); err != nil {
		return err
	}

	for i := 1; i < len(chain); i++ {
		if !chain[i].IsSealed(difficulty) {
			return &ChainError{Index: chain[i].Index, Err: ErrUnsealedBlock}
		}
	}

	return nil
}

// IsValid reports whether the chain passes Verify.
func IsValid(chain []Block) bool {
	return Verify(chain) == nil
}

// ValidateNextBlock takes a block and validates it to be appended directly
// after the parent block.
func ValidateNextBlock(block Block, parent Block, difficulty uint) error {
	if block.Index != parent.Index+1 {
		return &ChainError{Index: block.Index, Err: fmt.Errorf("%w, got %d, exp %d", ErrBlockOutOfOrder, block.Index, parent.Index+1)}
	}

	if block.PrevHash != parent.Hash {
		return &ChainError{Index: block.Index, Err: ErrBrokenChainLink}
	}

	if !block.IsValid() {
		return &ChainError{Index: block.Index, Err: ErrTamperedBlock}
	}

	if !block.IsSealed(difficulty) {
		return &ChainError{Index: block.Index, Err: ErrUnsealedBlock}
	}

	return nil
}
