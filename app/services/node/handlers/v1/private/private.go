// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/chatchain/business/sys/metrics"
	"github.com/ardanlabs/chatchain/business/sys/validate"
	"github.com/ardanlabs/chatchain/business/web/errs"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
	"github.com/ardanlabs/chatchain/foundation/events"
	"github.com/ardanlabs/chatchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := NodeStatus{
		Status:            h.State.RetrieveStatus(),
		LatestBlockNumber: h.State.RetrieveLatestBlock().Index,
	}

	if h.Evts != nil {
		status.Subscribers = h.Evts.Subscribers()
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.BadRequest(err)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.BadRequest(err)
	}

	if from > to {
		return errs.BadRequest(errors.New("from greater than to"))
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Verify checks every block including the difficulty and compares the
// projection against a fresh replay of the chain.
func (h Handlers) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report, err := h.State.Audit()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// Rebuild replays the chain into a fresh projection.
func (h Handlers) Rebuild(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("rebuild state", "traceid", v.TraceID)

	report, err := h.State.RebuildState()
	if err != nil {
		return err
	}

	if h.State.Worker != nil {
		h.State.Worker.SignalAudit()
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// IssueReward pays tokens from the pool to an address.
func (h Handlers) IssueReward(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req rewardRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("issue reward", "traceid", v.TraceID, "address", req.Address, "action", req.Action, "amount", req.Amount)

	receipt, err := h.State.IssueReward(ctx, req.Address, req.Action, req.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}
	metrics.AddBlocks(ctx, len(receipt.Blocks))

	return web.Respond(ctx, w, receipt, http.StatusOK)
}
