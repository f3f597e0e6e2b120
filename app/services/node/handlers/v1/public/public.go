// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/chatchain/business/sys/metrics"
	"github.com/ardanlabs/chatchain/business/sys/validate"
	"github.com/ardanlabs/chatchain/business/web/envelope"
	"github.com/ardanlabs/chatchain/business/web/errs"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
	"github.com/ardanlabs/chatchain/foundation/events"
	"github.com/ardanlabs/chatchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Health reports the node is up.
func (h Handlers) Health(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := health{
		Status:    "ChatBlockchain API is running",
		Blocks:    h.State.RetrieveChainLength(),
		TimeStamp: time.Now().UTC(),
	}

	return web.Respond(ctx, w, envelope.OK(resp, "OK"), http.StatusOK)
}

// RegisterUser adds a new user to the ledger and pays the registration bonus.
func (h Handlers) RegisterUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req registerRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("register user", "traceid", v.TraceID, "address", req.Address, "username", req.Username)

	receipt, err := h.State.RegisterUser(ctx, req.Address, req.Username, req.PublicKey)
	if err != nil {
		return errs.FromLedger(err)
	}
	metrics.AddBlocks(ctx, len(receipt.Blocks))

	resp := registered{
		Address:  req.Address,
		Blocks:   receipt.Blocks,
		Warnings: receipt.Warnings,
	}

	return web.Respond(ctx, w, envelope.OK(resp, "User registered successfully"), http.StatusOK)
}

// UpdateStatus records the presence of a user.
func (h Handlers) UpdateStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req statusRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("update status", "traceid", v.TraceID, "address", req.Address, "status", req.Status, "node", req.NodeID)

	receipt, err := h.State.UpdateStatus(ctx, req.Address, req.Username, req.Status, req.NodeID)
	if err != nil {
		return errs.FromLedger(err)
	}
	metrics.AddBlocks(ctx, len(receipt.Blocks))

	return web.Respond(ctx, w, envelope.OK(receipt, "User status updated successfully"), http.StatusOK)
}

// RecordConnection records a connection between two users.
func (h Handlers) RecordConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req connectionRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("record connection", "traceid", v.TraceID, "from", req.FromAddress, "to", req.ToAddress, "type", req.ConnectionType)

	receipt, err := h.State.RecordConnection(ctx, req.FromAddress, req.ToAddress, req.ConnectionType)
	if err != nil {
		return errs.FromLedger(err)
	}
	metrics.AddBlocks(ctx, len(receipt.Blocks))

	return web.Respond(ctx, w, envelope.OK(receipt, "Connection recorded successfully"), http.StatusOK)
}

// OnlineUsers returns the users currently online.
func (h Handlers) OnlineUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	users := h.State.QueryOnlineUsers()
	return web.Respond(ctx, w, envelope.OK(users, "Online users retrieved"), http.StatusOK)
}

// QueryUser returns the profile for the specified address.
func (h Handlers) QueryUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	user, err := h.State.QueryUser(web.Param(r, "address"))
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, envelope.OK(user, "User found"), http.StatusOK)
}

// UserConnections returns the connections where the address is either end.
func (h Handlers) UserConnections(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	conns := h.State.QueryUserConnections(web.Param(r, "address"))
	return web.Respond(ctx, w, envelope.OK(conns, "Connections retrieved"), http.StatusOK)
}

// Stats returns the ledger counters.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := h.State.RetrieveStatus()
	return web.Respond(ctx, w, envelope.OK(status, "Blockchain stats retrieved"), http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
