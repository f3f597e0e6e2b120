// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"crypto/sha256"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents the previous hash value stored in the genesis block.
const ZeroHash string = "0"

// DigestLength is the number of hex characters in a digest.
const DigestLength = sha256.Size * 2

// =============================================================================

// Digest returns the lowercase hex SHA-256 of the block fields concatenated
// in the order index, timestamp, data, previous hash and nonce.
func Digest(index uint64, timeStamp string, data string, prevHash string, nonce uint64) string {
	var b strings.Builder
	b.Grow(len(timeStamp) + len(data) + len(prevHash) + 40)

	b.WriteString(strconv.FormatUint(index, 10))
	b.WriteString(timeStamp)
	b.WriteString(data)
	b.WriteString(prevHash)
	b.WriteString(strconv.FormatUint(nonce, 10))

	hash := sha256.Sum256([]byte(b.String()))
	return common.Bytes2Hex(hash[:])
}

// IsSolved checks the hash to make sure it complies with the POW rules.
// The first difficulty characters of the hash must all be '0'.
func IsSolved(difficulty uint, hash string) bool {
	if difficulty == 0 {
		return true
	}

	if int(difficulty) > len(hash) {
		return false
	}

	for i := 0; i < int(difficulty); i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
