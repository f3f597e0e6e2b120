// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"
	"time"

	"github.com/ardanlabs/chatchain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/chatchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/chatchain/business/web/mid"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
	"github.com/ardanlabs/chatchain/foundation/events"
	"github.com/ardanlabs/chatchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log           *zap.SugaredLogger
	State         *state.State
	Evts          *events.Events
	MiningTimeout time.Duration
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	mining := mid.Timeout(cfg.MiningTimeout)

	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/health", pbl.Health)
	app.Handle(http.MethodPost, version, "/users/register", pbl.RegisterUser, mining)
	app.Handle(http.MethodPost, version, "/users/status", pbl.UpdateStatus, mining)
	app.Handle(http.MethodPost, version, "/connections", pbl.RecordConnection, mining)
	app.Handle(http.MethodGet, version, "/users/online", pbl.OnlineUsers)
	app.Handle(http.MethodGet, version, "/users/:address", pbl.QueryUser)
	app.Handle(http.MethodGet, version, "/users/:address/connections", pbl.UserConnections)
	app.Handle(http.MethodGet, version, "/blockchain/stats", pbl.Stats)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	mining := mid.Timeout(cfg.MiningTimeout)

	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/block/list/:from/:to", prv.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/node/verify", prv.Verify)
	app.Handle(http.MethodPost, version, "/node/rebuild", prv.Rebuild)
	app.Handle(http.MethodPost, version, "/node/rewards", prv.IssueReward, mining)
}
