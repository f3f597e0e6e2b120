package private

import (
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
)

// rewardRequest is the payload an operator uses to pay tokens from the pool.
type rewardRequest struct {
	Address string `json:"address" validate:"required"`
	Action  string `json:"action" validate:"required"`
	Amount  uint64 `json:"amount" validate:"required,gt=0"`
}

// NodeStatus is the operator view of the ledger.
type NodeStatus struct {
	state.Status
	LatestBlockNumber uint64 `json:"latest_block_number"`
	Subscribers       int    `json:"subscribers"`
}
