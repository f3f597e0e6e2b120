package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTx is returned when a block payload does not decode into a
// known transaction kind.
var ErrMalformedTx = errors.New("malformed transaction record")

// Set of transaction kinds. These names are the tags used in the
// serialized payload.
const (
	KindUserRegister          = "UserRegister"
	KindStatusUpdate          = "StatusUpdate"
	KindConnectionEstablished = "ConnectionEstablished"
	KindRewardIssued          = "RewardIssued"
)

// Set of connection types.
const (
	ConnectionP2P   = "p2p"
	ConnectionRelay = "relay"
)

// StatusOnline is the only status value that places a user in the online set.
const StatusOnline = "online"

// =============================================================================

// UserProfile represents a registered user of the service.
type UserProfile struct {
	Address      string    `json:"address"`
	Username     string    `json:"username"`
	PublicKey    string    `json:"public_key"`
	LastSeen     time.Time `json:"last_seen"`
	Reputation   uint64    `json:"reputation"`
	TokenBalance uint64    `json:"token_balance"`
}

// OnlineStatus represents the last known presence of a user.
type OnlineStatus struct {
	Address   string    `json:"address"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	NodeID    string    `json:"node_id"`
	TimeStamp time.Time `json:"timestamp"`
}

// ConnectionRecord represents a connection between two users.
type ConnectionRecord struct {
	FromAddress    string    `json:"from_address"`
	ToAddress      string    `json:"to_address"`
	ConnectionType string    `json:"connection_type"`
	TimeStamp      time.Time `json:"timestamp"`
	Duration       *uint64   `json:"duration"` // Seconds, nil while unknown.
	MessageCount   uint64    `json:"message_count"`
}

// Reward represents tokens paid out of the reward pool.
type Reward struct {
	UserAddress  string    `json:"user_address"`
	Action       string    `json:"action"`
	RewardAmount uint64    `json:"reward_amount"`
	TimeStamp    time.Time `json:"timestamp"`
}

// =============================================================================

// Tx represents one of the closed set of transaction kinds that can be
// recorded in a block. The unexported method keeps the set closed to this
// package.
type Tx interface {
	Kind() string
	Accept(v TxVisitor)
	isTx()
}

// TxVisitor is implemented by every consumer of transactions. Adding a new
// kind adds a method here, which breaks the build of every consumer that
// has not learned to handle it.
type TxVisitor interface {
	VisitUserRegister(tx UserRegister)
	VisitStatusUpdate(tx StatusUpdate)
	VisitConnectionEstablished(tx ConnectionEstablished)
	VisitRewardIssued(tx RewardIssued)
}

// UserRegister records a new user.
type UserRegister struct{ UserProfile }

// StatusUpdate records a change in presence.
type StatusUpdate struct{ OnlineStatus }

// ConnectionEstablished records a connection between two users.
type ConnectionEstablished struct{ ConnectionRecord }

// RewardIssued records a reward paid from the pool.
type RewardIssued struct{ Reward }

func (UserRegister) Kind() string          { return KindUserRegister }
func (StatusUpdate) Kind() string          { return KindStatusUpdate }
func (ConnectionEstablished) Kind() string { return KindConnectionEstablished }
func (RewardIssued) Kind() string          { return KindRewardIssued }

func (tx UserRegister) Accept(v TxVisitor)          { v.VisitUserRegister(tx) }
func (tx StatusUpdate) Accept(v TxVisitor)          { v.VisitStatusUpdate(tx) }
func (tx ConnectionEstablished) Accept(v TxVisitor) { v.VisitConnectionEstablished(tx) }
func (tx RewardIssued) Accept(v TxVisitor)          { v.VisitRewardIssued(tx) }

func (UserRegister) isTx()          {}
func (StatusUpdate) isTx()          {}
func (ConnectionEstablished) isTx() {}
func (RewardIssued) isTx()          {}

// =============================================================================

// EncodeTx serializes the transaction into the block payload format. The
// payload is a JSON object with a single key naming the kind.
func EncodeTx(tx Tx) (string, error) {
	var payload any
	switch tx := tx.(type) {
	case UserRegister:
		payload = tx.UserProfile
	case StatusUpdate:
		payload = tx.OnlineStatus
	case ConnectionEstablished:
		payload = tx.ConnectionRecord
	case RewardIssued:
		payload = tx.Reward
	default:
		return "", fmt.Errorf("unknown transaction type %T", tx)
	}

	data, err := json.Marshal(map[string]any{tx.Kind(): payload})
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", tx.Kind(), err)
	}

	return string(data), nil
}

// DecodeTx parses a block payload back into a transaction. Anything that is
// not exactly one known kind returns ErrMalformedTx.
func DecodeTx(data string) (Tx, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedTx, err)
	}

	if len(envelope) != 1 {
		return nil, fmt.Errorf("%w: expected one kind, got %d", ErrMalformedTx, len(envelope))
	}

	for kind, raw := range envelope {
		switch kind {
		case KindUserRegister:
			var tx UserRegister
			if err := decodeStrict(raw, &tx.UserProfile); err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrMalformedTx, kind, err)
			}
			return tx, nil

		case KindStatusUpdate:
			var tx StatusUpdate
			if err := decodeStrict(raw, &tx.OnlineStatus); err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrMalformedTx, kind, err)
			}
			return tx, nil

		case KindConnectionEstablished:
			var tx ConnectionEstablished
			if err := decodeStrict(raw, &tx.ConnectionRecord); err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrMalformedTx, kind, err)
			}
			return tx, nil

		case KindRewardIssued:
			var tx RewardIssued
			if err := decodeStrict(raw, &tx.Reward); err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrMalformedTx, kind, err)
			}
			return tx, nil

		default:
			return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedTx, kind)
		}
	}

	return nil, ErrMalformedTx
}

// decodeStrict rejects payloads carrying fields the kind does not define.
func decodeStrict(raw json.RawMessage, v any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.New("payload is null")
	}

	d := json.NewDecoder(bytes.NewReader(raw))
	d.DisallowUnknownFields()

	return d.Decode(v)
}
