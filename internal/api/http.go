package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/freydema/spacetrader-agent/internal/metrics"
	"github.com/freydema/spacetrader-agent/internal/model"
)

// ErrMissingPayload indicates a 2xx response that lacked an expected field,
// e.g. a ship purchase response without a ship object.
var ErrMissingPayload = errors.New("response missing expected payload")

// retryStatuses are the transient HTTP statuses worth retrying.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// HTTPClient implements Client against the SpaceTraders v2 REST API.
// It enforces a minimum inter-request interval and retries transient
// failures with exponential backoff before surfacing an error.
type HTTPClient struct {
	BaseURL string
	Token   string
	Client  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
	maxRetries  int
}

// NewHTTPClient creates a client with optional proxy support.
func NewHTTPClient(baseURL, token, proxyURL string) *HTTPClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		minInterval: 500 * time.Millisecond,
		maxRetries:  3,
	}
}

// throttle blocks until the minimum inter-request interval has elapsed.
func (c *HTTPClient) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := c.minInterval - time.Since(c.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// do performs one API request, decoding the "data" envelope into out.
// op is the fixed metric label for this call type; endpoint may carry IDs
// and query strings and never reaches a label.
func (c *HTTPClient) do(method, endpoint, op string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[WARN] %s %s failed (attempt %d/%d): %v, retrying in %v",
				method, endpoint, attempt, c.maxRetries+1, lastErr, backoff)
			time.Sleep(backoff)
		}
		c.throttle()

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, c.BaseURL+endpoint, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s %s: %w", method, endpoint, err)
			metrics.APIRequests.WithLabelValues(op, "error").Inc()
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%s %s: read body: %w", method, endpoint, err)
			continue
		}
		metrics.APIRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

		if retryStatuses[resp.StatusCode] {
			lastErr = fmt.Errorf("%s %s: status %d", method, endpoint, resp.StatusCode)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%s %s: status %d, body: %s", method, endpoint, resp.StatusCode, string(respBody))
		}
		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("%s %s: decode response: %w", method, endpoint, err)
			}
		}
		return nil
	}
	return fmt.Errorf("all %d attempts exhausted: %w", c.maxRetries+1, lastErr)
}

func (c *HTTPClient) GetAgent() (*model.AgentSnapshot, error) {
	var resp struct {
		Data agentPayload `json:"data"`
	}
	if err := c.do("GET", "/v2/my/agent", "get_agent", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.toModel(), nil
}

func (c *HTTPClient) ListShips() ([]model.Ship, error) {
	var ships []model.Ship
	page := 1
	const limit = 20
	for {
		var resp struct {
			Data []shipPayload `json:"data"`
			Meta meta          `json:"meta"`
		}
		endpoint := fmt.Sprintf("/v2/my/ships?page=%d&limit=%d", page, limit)
		if err := c.do("GET", endpoint, "list_ships", nil, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Data {
			ships = append(ships, *resp.Data[i].toModel())
		}
		if len(resp.Data) < limit || len(ships) >= resp.Meta.Total {
			return ships, nil
		}
		page++
	}
}

func (c *HTTPClient) ListContracts() ([]model.Contract, error) {
	var contracts []model.Contract
	page := 1
	const limit = 20
	for {
		var resp struct {
			Data []contractPayload `json:"data"`
			Meta meta              `json:"meta"`
		}
		endpoint := fmt.Sprintf("/v2/my/contracts?page=%d&limit=%d", page, limit)
		if err := c.do("GET", endpoint, "list_contracts", nil, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Data {
			contracts = append(contracts, *resp.Data[i].toModel())
		}
		if len(resp.Data) < limit || len(contracts) >= resp.Meta.Total {
			return contracts, nil
		}
		page++
	}
}

func (c *HTTPClient) AcceptContract(contractID string) (*AcceptResult, error) {
	var resp struct {
		Data struct {
			Contract *contractPayload `json:"contract"`
			Agent    *agentPayload    `json:"agent"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("/v2/my/contracts/%s/accept", contractID)
	if err := c.do("POST", endpoint, "accept_contract", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Contract == nil {
		return nil, fmt.Errorf("accept contract %s: %w", contractID, ErrMissingPayload)
	}
	result := &AcceptResult{Contract: resp.Data.Contract.toModel()}
	if resp.Data.Agent != nil {
		result.Agent = resp.Data.Agent.toModel()
	}
	return result, nil
}

func (c *HTTPClient) FulfillContract(contractID string) (*FulfillResult, error) {
	var resp struct {
		Data struct {
			Contract *contractPayload `json:"contract"`
			Agent    *agentPayload    `json:"agent"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("/v2/my/contracts/%s/fulfill", contractID)
	if err := c.do("POST", endpoint, "fulfill_contract", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Contract == nil {
		return nil, fmt.Errorf("fulfill contract %s: %w", contractID, ErrMissingPayload)
	}
	result := &FulfillResult{Contract: resp.Data.Contract.toModel()}
	if resp.Data.Agent != nil {
		result.Agent = resp.Data.Agent.toModel()
	}
	return result, nil
}

func (c *HTTPClient) DeliverCargo(contractID, shipSymbol, tradeSymbol string, units int) (*DeliverResult, error) {
	body := map[string]any{
		"shipSymbol":  shipSymbol,
		"tradeSymbol": tradeSymbol,
		"units":       units,
	}
	var resp struct {
		Data struct {
			Contract *contractPayload `json:"contract"`
			Cargo    *cargoPayload    `json:"cargo"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("/v2/my/contracts/%s/deliver", contractID)
	if err := c.do("POST", endpoint, "deliver_cargo", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Contract == nil {
		return nil, fmt.Errorf("deliver for contract %s: %w", contractID, ErrMissingPayload)
	}
	result := &DeliverResult{Contract: resp.Data.Contract.toModel()}
	if resp.Data.Cargo != nil {
		result.Cargo = resp.Data.Cargo.toModel()
	}
	return result, nil
}

func (c *HTTPClient) ListWaypoints(systemSymbol string, page, limit int) ([]model.Waypoint, int, error) {
	var resp struct {
		Data []waypointPayload `json:"data"`
		Meta meta              `json:"meta"`
	}
	endpoint := fmt.Sprintf("/v2/systems/%s/waypoints?page=%d&limit=%d", systemSymbol, page, limit)
	if err := c.do("GET", endpoint, "list_waypoints", nil, &resp); err != nil {
		return nil, 0, err
	}
	waypoints := make([]model.Waypoint, len(resp.Data))
	for i := range resp.Data {
		waypoints[i] = resp.Data[i].toModel()
	}
	return waypoints, resp.Meta.Total, nil
}

func (c *HTTPClient) GetShipyard(systemSymbol, waypointSymbol string) (*model.Shipyard, error) {
	var resp struct {
		Data shipyardPayload `json:"data"`
	}
	endpoint := fmt.Sprintf("/v2/systems/%s/waypoints/%s/shipyard", systemSymbol, waypointSymbol)
	if err := c.do("GET", endpoint, "get_shipyard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.toModel(systemSymbol), nil
}

func (c *HTTPClient) PurchaseShip(shipType, waypointSymbol string) (*PurchaseShipResult, error) {
	body := map[string]any{
		"shipType":       shipType,
		"waypointSymbol": waypointSymbol,
	}
	var resp struct {
		Data struct {
			Ship  *shipPayload  `json:"ship"`
			Agent *agentPayload `json:"agent"`
		} `json:"data"`
	}
	if err := c.do("POST", "/v2/my/ships", "purchase_ship", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Ship == nil {
		return nil, fmt.Errorf("purchase ship %s: %w", shipType, ErrMissingPayload)
	}
	result := &PurchaseShipResult{Ship: resp.Data.Ship.toModel()}
	if resp.Data.Agent != nil {
		result.Agent = resp.Data.Agent.toModel()
	}
	return result, nil
}

func (c *HTTPClient) PurchaseCargo(shipSymbol, tradeSymbol string, units int) (*PurchaseCargoResult, error) {
	body := map[string]any{
		"symbol": tradeSymbol,
		"units":  units,
	}
	var resp struct {
		Data struct {
			Cargo *cargoPayload `json:"cargo"`
			Agent *agentPayload `json:"agent"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("/v2/my/ships/%s/purchase", shipSymbol)
	if err := c.do("POST", endpoint, "purchase_cargo", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Cargo == nil {
		return nil, fmt.Errorf("purchase cargo on %s: %w", shipSymbol, ErrMissingPayload)
	}
	result := &PurchaseCargoResult{Cargo: resp.Data.Cargo.toModel()}
	if resp.Data.Agent != nil {
		result.Agent = resp.Data.Agent.toModel()
	}
	return result, nil
}

func (c *HTTPClient) OrbitShip(shipSymbol string) error {
	return c.do("POST", fmt.Sprintf("/v2/my/ships/%s/orbit", shipSymbol), "orbit_ship", nil, nil)
}

func (c *HTTPClient) DockShip(shipSymbol string) error {
	return c.do("POST", fmt.Sprintf("/v2/my/ships/%s/dock", shipSymbol), "dock_ship", nil, nil)
}

func (c *HTTPClient) NavigateShip(shipSymbol, waypointSymbol string) error {
	body := map[string]any{"waypointSymbol": waypointSymbol}
	return c.do("POST", fmt.Sprintf("/v2/my/ships/%s/navigate", shipSymbol), "navigate_ship", body, nil)
}

func (c *HTTPClient) RefuelShip(shipSymbol string) error {
	return c.do("POST", fmt.Sprintf("/v2/my/ships/%s/refuel", shipSymbol), "refuel_ship", nil, nil)
}
