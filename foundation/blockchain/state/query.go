package state

import (
	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryUser returns the profile for the specified address.
func (s *State) QueryUser(address string) (database.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.projection.User(address)
	if !exists {
		return database.UserProfile{}, ErrUserNotFound
	}

	return user, nil
}

// QueryOnlineUsers returns the set of users currently online.
func (s *State) QueryOnlineUsers() []database.OnlineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.projection.OnlineUsers()
}

// QueryUserConnections returns the connections where the address is either
// end of the connection.
func (s *State) QueryUserConnections(address string) []database.ConnectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.projection.UserConnections(address)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.db.LatestBlock().Index
	if from == QueryLatest {
		from = latest
		to = from
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.GetBlock(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByNumber: ERROR: %s", err)
			return nil
		}
		out = append(out, block)
	}

	return out
}
