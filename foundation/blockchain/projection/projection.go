// Package projection maintains the in-memory view of users, presence and
// connections derived from the transactions recorded in the chain.
package projection

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
)

// Effect describes what applying a single transaction did beyond the
// normal state change.
type Effect struct {
	CreditLost bool // A reward named an address with no registered user.
}

// Report summarizes a full replay of the chain.
type Report struct {
	Replayed    int      `json:"replayed"`     // Blocks applied to the projection.
	Skipped     []uint64 `json:"skipped"`      // Block numbers whose payload did not decode.
	LostCredits int      `json:"lost_credits"` // Rewards naming an unknown address.
}

// =============================================================================

// Projection is the derived view of the chain. It is a cache and can be
// thrown away and rebuilt from the blocks at any time. A Projection is not
// safe for concurrent use; the owner must serialize access.
type Projection struct {
	users       map[string]database.UserProfile
	online      map[string]database.OnlineStatus
	connections []database.ConnectionRecord
}

// New constructs an empty projection.
func New() *Projection {
	return &Projection{
		users:  make(map[string]database.UserProfile),
		online: make(map[string]database.OnlineStatus),
	}
}

// Reset clears the projection back to empty.
func (p *Projection) Reset() {
	p.users = make(map[string]database.UserProfile)
	p.online = make(map[string]database.OnlineStatus)
	p.connections = nil
}

// ApplyBlock decodes the block payload and applies the transaction.
func (p *Projection) ApplyBlock(block database.Block) (Effect, error) {
	tx, err := database.DecodeTx(block.Data)
	if err != nil {
		return Effect{}, fmt.Errorf("blk[%d]: %w", block.Index, err)
	}

	return p.Apply(tx), nil
}

// Apply performs the state change for a single transaction.
func (p *Projection) Apply(tx database.Tx) Effect {
	a := applier{p: p}
	tx.Accept(&a)

	return a.effect
}

// Replay clears the projection and applies every block in order. Blocks that
// do not decode are skipped and reported, the rest of the chain is applied.
func (p *Projection) Replay(blocks []database.Block) Report {
	p.Reset()

	report := Report{
		Skipped: []uint64{},
	}

	for _, block := range blocks {
		effect, err := p.ApplyBlock(block)
		if err != nil {
			report.Skipped = append(report.Skipped, block.Index)
			continue
		}

		report.Replayed++
		if effect.CreditLost {
			report.LostCredits++
		}
	}

	return report
}

// Clone returns a deep copy of the projection.
func (p *Projection) Clone() *Projection {
	cpy := New()
	for address, user := range p.users {
		cpy.users[address] = user
	}
	for address, status := range p.online {
		cpy.online[address] = status
	}
	cpy.connections = append(cpy.connections, p.connections...)

	return cpy
}

// Equal reports whether both projections hold the same users, presence
// and connections.
func (p *Projection) Equal(other *Projection) bool {
	if len(p.connections) != len(other.connections) {
		return false
	}

	for i := range p.connections {
		if !reflect.DeepEqual(p.connections[i], other.connections[i]) {
			return false
		}
	}

	return reflect.DeepEqual(p.users, other.users) && reflect.DeepEqual(p.online, other.online)
}

// =============================================================================

// User returns the profile for the address.
func (p *Projection) User(address string) (database.UserProfile, bool) {
	user, exists := p.users[address]
	return user, exists
}

// HasUser reports whether the address is registered.
func (p *Projection) HasUser(address string) bool {
	_, exists := p.users[address]
	return exists
}

// OnlineUsers returns the users currently online ordered by address.
func (p *Projection) OnlineUsers() []database.OnlineStatus {
	out := make([]database.OnlineStatus, 0, len(p.online))
	for _, status := range p.online {
		out = append(out, status)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })

	return out
}

// UserConnections returns the connections where the address is either end,
// in the order they were recorded.
func (p *Projection) UserConnections(address string) []database.ConnectionRecord {
	out := []database.ConnectionRecord{}
	for _, conn := range p.connections {
		if conn.FromAddress == address || conn.ToAddress == address {
			out = append(out, conn)
		}
	}

	return out
}

// UserCount returns the number of registered users.
func (p *Projection) UserCount() int {
	return len(p.users)
}

// OnlineCount returns the number of users online.
func (p *Projection) OnlineCount() int {
	return len(p.online)
}

// ConnectionCount returns the number of recorded connections.
func (p *Projection) ConnectionCount() int {
	return len(p.connections)
}

// =============================================================================

// applier implements database.TxVisitor against a projection.
type applier struct {
	p      *Projection
	effect Effect
}

func (a *applier) VisitUserRegister(tx database.UserRegister) {
	a.p.users[tx.Address] = tx.UserProfile
}

func (a *applier) VisitStatusUpdate(tx database.StatusUpdate) {
	if tx.Status == database.StatusOnline {
		a.p.online[tx.Address] = tx.OnlineStatus
		return
	}

	delete(a.p.online, tx.Address)
}

func (a *applier) VisitConnectionEstablished(tx database.ConnectionEstablished) {
	a.p.connections = append(a.p.connections, tx.ConnectionRecord)
}

func (a *applier) VisitRewardIssued(tx database.RewardIssued) {
	user, exists := a.p.users[tx.UserAddress]
	if !exists {
		a.effect.CreditLost = true
		return
	}

	user.TokenBalance += tx.RewardAmount
	a.p.users[tx.UserAddress] = user
}
