package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing
func (c *Client) SessionID() string {
	return c.sessionID
}

// Resume points the client at an existing session and returns its state
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID
	return c.State(ctx)
}

func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) State(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Hints(ctx context.Context) (*service.HintResponse, error) {
	var hints service.HintResponse
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/hints"), nil, &hints); err != nil {
		return nil, fmt.Errorf("get hints: %w", err)
	}
	return &hints, nil
}

func (c *Client) Move(ctx context.Context, m engine.MoveOption) (*service.MoveResult, error) {
	body := map[string]int{"from": m.From, "to": m.To, "count": m.Count}
	return c.action(ctx, "/move", body)
}

func (c *Client) Deal(ctx context.Context) (*service.MoveResult, error) {
	return c.action(ctx, "/deal", nil)
}

func (c *Client) Undo(ctx context.Context) (*service.MoveResult, error) {
	return c.action(ctx, "/undo", nil)
}

func (c *Client) SubmitScore(ctx context.Context, name string) (*service.SubmitResult, error) {
	var result service.SubmitResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/score"), map[string]string{"name": name}, &result); err != nil {
		return nil, fmt.Errorf("submit score: %w", err)
	}
	return &result, nil
}

func (c *Client) Leaderboard(ctx context.Context, difficulty int) (*service.LeaderboardResponse, error) {
	var board service.LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/leaderboard/%d", difficulty), nil, &board); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return &board, nil
}

func (c *Client) action(ctx context.Context, suffix string, body interface{}) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath(suffix), body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(suffix, "/"), err)
	}
	return &result, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s (%d)", errResp.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s - %s", resp.Status, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
