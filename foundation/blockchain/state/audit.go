package state

import (
	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/projection"
)

// AuditReport describes the result of checking the chain and the projection.
type AuditReport struct {
	Blocks     int               `json:"blocks"`
	Valid      bool              `json:"valid"`
	Error      string            `json:"error,omitempty"`
	Consistent bool              `json:"consistent"`
	Replay     projection.Report `json:"replay"`
}

// Audit verifies the chain strictly and replays it into a scratch projection
// to confirm the live projection still matches the chain. Nothing is
// changed; problems are reported through the event handler.
func (s *State) Audit() (AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks, err := s.db.Copy()
	if err != nil {
		return AuditReport{}, err
	}

	report := AuditReport{
		Blocks: len(blocks),
		Valid:  true,
	}

	if err := database.VerifyStrict(blocks, s.genesis.Difficulty); err != nil {
		report.Valid = false
		report.Error = err.Error()
		s.evHandler("state: Audit: WARNING: chain failed verification: %s", err)
	}

	scratch := projection.New()
	report.Replay = scratch.Replay(blocks)
	report.Consistent = s.projection.Equal(scratch)

	if !report.Consistent {
		s.evHandler("state: Audit: WARNING: projection does not match replay of the chain")
	}

	s.evHandler("state: Audit: blocks[%d]: valid[%v]: consistent[%v]", report.Blocks, report.Valid, report.Consistent)

	return report, nil
}
