package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/projection"
)

// Set of reward actions recorded in reward transactions.
const (
	ActionRegister = "register"
	ActionOnline   = "online"
	ActionConnect  = "connect"
)

// now returns the time recorded in new transactions.
func now() time.Time {
	return time.Now().UTC()
}

// =============================================================================

// RegisterUser records a new user followed by the registration bonus. The
// user opens with a zero balance and receives the bonus through the reward,
// so the tokens are drawn from the pool exactly once. If the pool can't
// cover the bonus the user is still registered and the receipt says so.
func (s *State) RegisterUser(ctx context.Context, address string, username string, publicKey string) (Receipt, error) {
	plan := func(b *batch) error {
		if s.projection.HasUser(address) {
			return fmt.Errorf("%s: %w", address, ErrDuplicateAddress)
		}

		b.txs = append(b.txs, database.UserRegister{
			UserProfile: database.UserProfile{
				Address:      address,
				Username:     username,
				PublicKey:    publicKey,
				LastSeen:     now(),
				Reputation:   0,
				TokenBalance: 0,
			},
		})

		s.addReward(b, address, ActionRegister, s.genesis.RegistrationBonus)

		return nil
	}

	return s.execute(ctx, "RegisterUser", plan)
}

// UpdateStatus records the presence of a user. Only "online" places the user
// in the online set and pays the online reward. Any other status removes
// the user from the online set.
func (s *State) UpdateStatus(ctx context.Context, address string, username string, status string, nodeID string) (Receipt, error) {
	plan := func(b *batch) error {
		b.txs = append(b.txs, database.StatusUpdate{
			OnlineStatus: database.OnlineStatus{
				Address:   address,
				Username:  username,
				Status:    status,
				NodeID:    nodeID,
				TimeStamp: now(),
			},
		})

		if status == database.StatusOnline {
			s.addReward(b, address, ActionOnline, s.genesis.OnlineReward)
		}

		return nil
	}

	return s.execute(ctx, "UpdateStatus", plan)
}

// RecordConnection records a connection between two users and pays the
// connect reward to both ends.
func (s *State) RecordConnection(ctx context.Context, from string, to string, connType string) (Receipt, error) {
	plan := func(b *batch) error {
		b.txs = append(b.txs, database.ConnectionEstablished{
			ConnectionRecord: database.ConnectionRecord{
				FromAddress:    from,
				ToAddress:      to,
				ConnectionType: connType,
				TimeStamp:      now(),
				Duration:       nil,
				MessageCount:   0,
			},
		})

		s.addReward(b, from, ActionConnect, s.genesis.ConnectReward)
		s.addReward(b, to, ActionConnect, s.genesis.ConnectReward)

		return nil
	}

	return s.execute(ctx, "RecordConnection", plan)
}

// IssueReward pays tokens from the pool to the address. If the pool can't
// cover the amount nothing is recorded. A reward to an address that is not
// registered is recorded but credits no one; the receipt reports it.
func (s *State) IssueReward(ctx context.Context, address string, action string, amount uint64) (Receipt, error) {
	plan := func(b *batch) error {
		if s.rewardPool < amount {
			return fmt.Errorf("pool %d, amount %d: %w", s.rewardPool, amount, ErrInsufficientRewardPool)
		}

		s.addReward(b, address, action, amount)

		return nil
	}

	return s.execute(ctx, "IssueReward", plan)
}

// RebuildState throws away the projection and replays the whole chain.
// The reward pool is a running counter and is left alone. Payloads that do
// not decode are skipped and reported.
func (s *State) RebuildState() (projection.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: RebuildState: started")
	defer s.evHandler("state: RebuildState: completed")

	blocks, err := s.db.Copy()
	if err != nil {
		return projection.Report{}, err
	}

	report := s.projection.Replay(blocks)

	for _, num := range report.Skipped {
		s.evHandler("state: RebuildState: WARNING: blk[%d]: skipped undecodable payload", num)
	}
	if report.LostCredits > 0 {
		s.evHandler("state: RebuildState: WARNING: rewards to unknown addresses[%d]", report.LostCredits)
	}

	s.evHandler("state: RebuildState: replayed[%d]: skipped[%d]", report.Replayed, len(report.Skipped))

	return report, nil
}
