// Package archive reads and writes a chain as a file of JSON documents, one
// block per line, so a copy of the ledger can be checked away from the node.
package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/projection"
)

// maxLine bounds the size of a single block document.
const maxLine = 1 << 20

// ErrEmpty is returned when an archive holds no blocks.
var ErrEmpty = errors.New("archive holds no blocks")

// Write writes the blocks to the writer, one JSON document per line.
func Write(w io.Writer, blocks []database.Block) error {
	bw := bufio.NewWriter(w)

	for _, block := range blocks {
		blockJSON, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("blk[%d]: %w", block.Index, err)
		}

		if _, err := bw.Write(append(blockJSON, '\n')); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Read loads the blocks from the reader. Blocks are returned as stored;
// use Check to find out if they can be trusted.
func Read(r io.Reader) ([]database.Block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var line int
	var blocks []database.Block
	for scanner.Scan() {
		line++

		if len(scanner.Bytes()) == 0 {
			continue
		}

		var block database.Block
		if err := json.Unmarshal(scanner.Bytes(), &block); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		blocks = append(blocks, block)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		return nil, ErrEmpty
	}

	return blocks, nil
}

// =============================================================================

// Report describes the result of checking an archived chain.
type Report struct {
	Blocks int               `json:"blocks"`
	Valid  bool              `json:"valid"`
	Error  string            `json:"error,omitempty"`
	Replay projection.Report `json:"replay"`
	Users  int               `json:"users"`
	Online int               `json:"online"`
	Links  int               `json:"connections"`
}

// Check verifies the chain against the difficulty and replays it into a
// fresh projection.
func Check(blocks []database.Block, difficulty uint) Report {
	report := Report{
		Blocks: len(blocks),
		Valid:  true,
	}

	if err := database.VerifyStrict(blocks, difficulty); err != nil {
		report.Valid = false
		report.Error = err.Error()
	}

	proj := projection.New()
	report.Replay = proj.Replay(blocks)
	report.Users = proj.UserCount()
	report.Online = proj.OnlineCount()
	report.Links = proj.ConnectionCount()

	return report
}
