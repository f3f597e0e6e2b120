// Package client provides support for calling the public and private
// ledger APIs of a running node.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ardanlabs/chatchain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/chatchain/business/web/errs"
	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/projection"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
)

// Error is returned when the node responds with an error document.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("status %d: %s: %v", e.StatusCode, e.Message, e.Fields)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the public and private hosts of a node.
type Client struct {
	publicURL  string
	privateURL string
	http       *http.Client
}

// New constructs a client for the node listening on the specified hosts.
func New(publicURL string, privateURL string, timeout time.Duration) *Client {
	return &Client{
		publicURL:  publicURL,
		privateURL: privateURL,
		http:       &http.Client{Timeout: timeout},
	}
}

// =============================================================================

// Status returns the operator status of the node.
func (c *Client) Status(ctx context.Context) (private.NodeStatus, error) {
	var status private.NodeStatus
	if err := c.send(ctx, http.MethodGet, c.privateURL+"/v1/node/status", nil, &status); err != nil {
		return private.NodeStatus{}, err
	}
	return status, nil
}

// Stats returns the public ledger counters.
func (c *Client) Stats(ctx context.Context) (state.Status, error) {
	var status state.Status
	if err := c.sendEnvelope(ctx, http.MethodGet, c.publicURL+"/v1/blockchain/stats", nil, &status); err != nil {
		return state.Status{}, err
	}
	return status, nil
}

// User returns the profile for the address.
func (c *Client) User(ctx context.Context, address string) (database.UserProfile, error) {
	var user database.UserProfile
	if err := c.sendEnvelope(ctx, http.MethodGet, c.publicURL+"/v1/users/"+url.PathEscape(address), nil, &user); err != nil {
		return database.UserProfile{}, err
	}
	return user, nil
}

// Online returns the users currently online.
func (c *Client) Online(ctx context.Context) ([]database.OnlineStatus, error) {
	var users []database.OnlineStatus
	if err := c.sendEnvelope(ctx, http.MethodGet, c.publicURL+"/v1/users/online", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Connections returns the connections for the address.
func (c *Client) Connections(ctx context.Context, address string) ([]database.ConnectionRecord, error) {
	var conns []database.ConnectionRecord
	if err := c.sendEnvelope(ctx, http.MethodGet, c.publicURL+"/v1/users/"+url.PathEscape(address)+"/connections", nil, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

// Register registers a user with the node.
func (c *Client) Register(ctx context.Context, address string, username string, publicKey string) (state.Receipt, error) {
	req := struct {
		Address   string `json:"address"`
		Username  string `json:"username"`
		PublicKey string `json:"public_key"`
	}{
		Address:   address,
		Username:  username,
		PublicKey: publicKey,
	}

	var receipt state.Receipt
	if err := c.sendEnvelope(ctx, http.MethodPost, c.publicURL+"/v1/users/register", req, &receipt); err != nil {
		return state.Receipt{}, err
	}
	return receipt, nil
}

// Blocks returns the blocks in the range. Use "latest" for either end to
// refer to the tip of the chain.
func (c *Client) Blocks(ctx context.Context, from string, to string) ([]database.Block, error) {
	endpoint := fmt.Sprintf("%s/v1/node/block/list/%s/%s", c.privateURL, url.PathEscape(from), url.PathEscape(to))

	var blocks []database.Block
	if err := c.send(ctx, http.MethodGet, endpoint, nil, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Verify asks the node to audit the chain and its projection.
func (c *Client) Verify(ctx context.Context) (state.AuditReport, error) {
	var report state.AuditReport
	if err := c.send(ctx, http.MethodGet, c.privateURL+"/v1/node/verify", nil, &report); err != nil {
		return state.AuditReport{}, err
	}
	return report, nil
}

// Rebuild asks the node to replay the chain into a fresh projection.
func (c *Client) Rebuild(ctx context.Context) (projection.Report, error) {
	var report projection.Report
	if err := c.send(ctx, http.MethodPost, c.privateURL+"/v1/node/rebuild", nil, &report); err != nil {
		return projection.Report{}, err
	}
	return report, nil
}

// Reward pays tokens from the pool to the address.
func (c *Client) Reward(ctx context.Context, address string, action string, amount uint64) (state.Receipt, error) {
	req := struct {
		Address string `json:"address"`
		Action  string `json:"action"`
		Amount  uint64 `json:"amount"`
	}{
		Address: address,
		Action:  action,
		Amount:  amount,
	}

	var receipt state.Receipt
	if err := c.send(ctx, http.MethodPost, c.privateURL+"/v1/node/rewards", req, &receipt); err != nil {
		return state.Receipt{}, err
	}
	return receipt, nil
}

// =============================================================================

// sendEnvelope performs a call against the public API and unwraps the data
// from the response envelope.
func (c *Client) sendEnvelope(ctx context.Context, method string, endpoint string, body any, data any) error {
	env := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}{}

	if err := c.send(ctx, method, endpoint, body, &env); err != nil {
		return err
	}

	if len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	return nil
}

// send performs the HTTP call and decodes the response into the value
// provided. Error documents are returned as an *Error.
func (c *Client) send(ctx context.Context, method string, endpoint string, body any, v any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil

	case resp.StatusCode >= http.StatusBadRequest:
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &Error{StatusCode: resp.StatusCode, Message: er.Error, Fields: er.Fields}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
