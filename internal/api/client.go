package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pwnflow/pwnflow-tui/internal/config"
	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// Client talks to the Pwnflow backend REST API. It is safe for
// concurrent use; the bearer token is the only mutable state.
//
// The underlying http.Client owns the timeout. A timed-out call comes
// back as a retryable gateway error like any other transport failure;
// the client never retries on its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a Client from the API configuration.
func NewClient(cfg config.APIConfig, logger *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger.WithComponent("api"),
		token:  cfg.Token,
	}
}

// SetToken replaces the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the backend root URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Login exchanges credentials for a bearer token and installs it on the
// client. The backend speaks OAuth2 password flow: credentials go as a
// form body, the token comes back as JSON.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	endpoint := c.baseURL + "/auth/login/access-token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token tokenResponse
	if err := c.do(req, &token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return errors.NewGatewayError("login returned an empty token", errors.ErrAuthRequired).
			WithEndpoint("POST /auth/login/access-token")
	}

	c.SetToken(token.AccessToken)
	c.logger.Info("authenticated", "user", username)
	return nil
}

// ListNodes fetches every node of a project.
func (c *Client) ListNodes(ctx context.Context, projectID string) ([]Node, []NodeLink, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/nodes/", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build list request")
	}

	var resp nodesResponse
	if err := c.do(req, &resp); err != nil {
		return nil, nil, err
	}

	c.logger.Debug("nodes listed", "project", projectID, "count", len(resp.Nodes))
	return resp.Nodes, resp.Links, nil
}

// SaveNodeField persists a single field of a node via a partial update.
// Only the named field travels; everything else on the node is left
// untouched server-side.
func (c *Client) SaveNodeField(ctx context.Context, projectID, nodeID, field, value string) error {
	switch field {
	case FieldTitle, FieldDescription, FieldStatus:
	default:
		return errors.NewValidationError("field is not editable").
			WithField(field)
	}

	body, err := json.Marshal(map[string]string{field: value})
	if err != nil {
		return errors.Wrap(err, "failed to encode node update")
	}

	endpoint := fmt.Sprintf("%s/projects/%s/nodes/%s", c.baseURL, projectID, nodeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build update request")
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return err
	}

	c.logger.Debug("node field saved", "node", nodeID, "field", field)
	return nil
}

// -----------------------------------------------------------------------------
// Transport
// -----------------------------------------------------------------------------

// do executes the request, classifies the outcome, and decodes a 2xx
// body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	endpoint := req.Method + " " + req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp, endpoint)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewGatewayError("failed to decode response body", err).
			WithEndpoint(endpoint)
	}
	return nil
}

// classifyTransportError maps errors from the HTTP round trip itself.
// Timeouts get their own sentinel; everything else is a network failure.
// Both are retryable in the sense that a fresh commit may succeed.
func classifyTransportError(err error, endpoint string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return errors.NewGatewayError("request timed out", errors.ErrGatewayTimeout).
			WithEndpoint(endpoint)
	}
	if errors.Is(err, context.Canceled) {
		return errors.NewGatewayError("request canceled", err).
			WithEndpoint(endpoint).
			WithSeverity(errors.SeverityDebug)
	}
	return errors.NewGatewayError("request failed", errors.Wrap(errors.ErrNetwork, err.Error())).
		WithEndpoint(endpoint)
}

// classifyStatus maps non-2xx responses onto the error taxonomy:
// 401/403 means the session must re-authenticate, 404 is a missing
// resource, 413/422 means the content itself was rejected, and server
// errors are treated as transient network failures.
func classifyStatus(resp *http.Response, endpoint string) error {
	detail := readDetail(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		msg := "authentication rejected"
		if detail != "" {
			msg = detail
		}
		return errors.NewGatewayError(msg, errors.ErrAuthRequired).
			WithStatusCode(resp.StatusCode).
			WithEndpoint(endpoint)

	case resp.StatusCode == http.StatusNotFound:
		nf := errors.NewNotFoundError("resource", endpoint)
		return errors.NewGatewayError("resource not found", nf).
			WithStatusCode(resp.StatusCode).
			WithEndpoint(endpoint)

	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusRequestEntityTooLarge:
		msg := "content rejected by the backend"
		if detail != "" {
			msg = detail
		}
		return errors.NewGatewayError(msg, errors.ErrValidation).
			WithStatusCode(resp.StatusCode).
			WithEndpoint(endpoint)

	case resp.StatusCode >= 500:
		return errors.NewGatewayError("backend error", errors.ErrNetwork).
			WithStatusCode(resp.StatusCode).
			WithEndpoint(endpoint)

	default:
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail)
		}
		return errors.NewGatewayError(msg, nil).
			WithStatusCode(resp.StatusCode).
			WithEndpoint(endpoint)
	}
}

// readDetail pulls the backend's {"detail": ...} message out of an error
// body, best effort.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return ""
	}
	return resp.Detail
}

// -----------------------------------------------------------------------------
// Field Gateway
// -----------------------------------------------------------------------------

// FieldGateway binds a Client to a project so it satisfies the editing
// core's persistence interface, which speaks in (entity, field) pairs and
// knows nothing about projects.
type FieldGateway struct {
	client    *Client
	projectID string
}

// NewFieldGateway creates a FieldGateway for the given project.
func NewFieldGateway(client *Client, projectID string) *FieldGateway {
	return &FieldGateway{client: client, projectID: projectID}
}

// Save persists a buffered field value.
func (g *FieldGateway) Save(ctx context.Context, entityID, fieldID, value string) error {
	return g.client.SaveNodeField(ctx, g.projectID, entityID, fieldID, value)
}
