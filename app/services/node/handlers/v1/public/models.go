package public

import (
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
)

// registerRequest is the payload to register a user.
type registerRequest struct {
	Address   string `json:"address" validate:"required"`
	Username  string `json:"username" validate:"required"`
	PublicKey string `json:"public_key" validate:"required"`
}

// statusRequest is the payload to update the presence of a user.
type statusRequest struct {
	Address  string `json:"address" validate:"required"`
	Username string `json:"username" validate:"required"`
	Status   string `json:"status" validate:"required"`
	NodeID   string `json:"node_id" validate:"required"`
}

// connectionRequest is the payload to record a connection between users.
type connectionRequest struct {
	FromAddress    string `json:"from_address" validate:"required"`
	ToAddress      string `json:"to_address" validate:"required,nefield=FromAddress"`
	ConnectionType string `json:"connection_type" validate:"required,oneof=p2p relay"`
}

// health is returned by the health check.
type health struct {
	Status    string    `json:"status"`
	Blocks    int       `json:"blocks"`
	TimeStamp time.Time `json:"timestamp"`
}

// registered is returned after a user is registered.
type registered struct {
	Address  string           `json:"address"`
	Blocks   []database.Block `json:"blocks"`
	Warnings []string         `json:"warnings,omitempty"`
}
