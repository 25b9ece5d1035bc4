package mcp

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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Spooder Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Spooder Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build eight descending King-to-Ace runs of one suit. Completed runs leave the table.
Clear all ten columns and the stock to win.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage tables
- game_state: render the tableau
- move: move cards between columns - requires intent explanation
- deal: deal one card onto every column from the stock
- undo: take back the last move or deal (costs points)
- reset_game: re-deal the same shuffle
- hints: legal moves, most useful first
- move_history: past actions
- describe_column: one column in detail
- list_configs: difficulties (1, 2 or 4 suits)
- submit_score / leaderboard: post and read high scores
- game_instructions: full rules

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

var emptySchema = mcp.ToolInputSchema{
	Type:       "object",
	Properties: map[string]interface{}{},
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session and deal a fresh shuffle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Difficulty config to use: one_suit, two_suits, four_suits (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: emptySchema,
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current tableau, stock and score",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the last count cards of one column onto another. The moved cards must be a face-up run of one suit descending by one, and the target must be empty or show a card one rank higher.",
		InputSchema: sessionSchema(map[string]interface{}{
			"from":  intProp("Source column (0-9)"),
			"to":    intProp("Target column (0-9)"),
			"count": intProp("Number of cards to move from the end of the source column (default 1)"),
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
			},
		}, "from", "to"),
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deal",
		Description: "Deal one face-up card onto every column from the stock",
		InputSchema: sessionSchema(nil),
	}, c.handleDeal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the last move or deal. Costs an undo penalty.",
		InputSchema: sessionSchema(nil),
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Re-deal the same shuffle and start over",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hints",
		Description: "List legal moves, most useful first, with a suggestion",
		InputSchema: sessionSchema(nil),
	}, c.handleHints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: sessionSchema(map[string]interface{}{
			"page":  intProp("Page number"),
			"limit": intProp("Items per page"),
		}),
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_column",
		Description: "Describe one column card by card, including the length of the movable run at its end",
		InputSchema: sessionSchema(map[string]interface{}{
			"column": intProp("Column index (0-9)"),
		}, "column"),
	}, c.handleDescribeColumn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available difficulty configurations",
		InputSchema: emptySchema,
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: emptySchema,
	}, c.handleGameInstructions)

	// Leaderboard
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_score",
		Description: "Submit the session's current score to the leaderboard",
		InputSchema: sessionSchema(map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Player name (optional)",
			},
		}),
	}, c.handleSubmitScore)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the top scores for a difficulty",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"difficulty": intProp("Number of suits: 1, 2 or 4"),
			},
			Required: []string{"difficulty"},
		},
	}, c.handleLeaderboard)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func argsOf(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)

	body := map[string]string{}
	if configName := stringArg(args, "config_name"); configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s", s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
		if s.GameState != nil {
			fmt.Fprintf(&b, ", Score: %d, Runs: %d/%d", s.GameState.Score, len(s.GameState.CompletedRuns), engine.TotalRuns)
		}
		b.WriteString(")\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(argsOf(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(argsOf(request), "session_id")

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	sessionID := stringArg(args, "session_id")

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = stringArg(args, "intent")

	from, okFrom := intArg(args, "from")
	to, okTo := intArg(args, "to")
	if !okFrom || !okTo {
		return mcp.NewToolResultError("from and to are required column numbers"), nil
	}
	count, ok := intArg(args, "count")
	if !ok || count == 0 {
		count = 1
	}

	body := map[string]int{"from": from, "to": to, "count": count}

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult("Move", &result)), nil
}

func (c *Client) handleDeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.simpleAction(request, "/deal", "Deal")
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.simpleAction(request, "/undo", "Undo")
}

func (c *Client) simpleAction(request mcp.CallToolRequest, suffix, label string) (*mcp.CallToolResult, error) {
	sessionID := stringArg(argsOf(request), "session_id")

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, suffix), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(label, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(argsOf(request), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message + "\n"
	if response.State != nil {
		result += "\n" + formatGameState(response.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(argsOf(request), "session_id")

	var hints service.HintResponse
	if err := c.apiCall("GET", sessionPath(sessionID, "/hints"), nil, &hints); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHints(&hints)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	sessionID := stringArg(args, "session_id")

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok && page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok && limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeColumn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	sessionID := stringArg(args, "session_id")
	column, ok := intArg(args, "column")
	if !ok {
		return mcp.NewToolResultError("column is required"), nil
	}
	if column < 0 || column >= engine.NumColumns {
		return mcp.NewToolResultError(fmt.Sprintf("column must be between 0 and %d", engine.NumColumns-1)), nil
	}

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatColumn(&state, column)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (%d suit(s)", cfg.ConfigID, cfg.Name, cfg.Suits)
		if cfg.StrictDeal {
			b.WriteString(", no dealing onto empty columns")
		}
		b.WriteString(")\n")
		if cfg.Description != "" {
			fmt.Fprintf(&b, "  %s\n", cfg.Description)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSubmitScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	sessionID := stringArg(args, "session_id")

	body := map[string]string{"name": stringArg(args, "name")}

	var result service.SubmitResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/score"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "✓"
	if !result.Success {
		status = "✗"
	}
	text := fmt.Sprintf("%s %s\nName: %s  Score: %d  Difficulty: %d suit(s)  Moves: %d  Time: %s\n",
		status, result.Message, result.Entry.Name, result.Entry.Score, result.Entry.Difficulty, result.Entry.Moves, result.Entry.Elapsed)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty, ok := intArg(argsOf(request), "difficulty")
	if !ok {
		return mcp.NewToolResultError("difficulty is required"), nil
	}

	var board service.LeaderboardResponse
	if err := c.apiCall("GET", fmt.Sprintf("/api/leaderboard/%d", difficulty), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(&board)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🕷 Spooder Solitaire - Complete Instructions

GAME OBJECTIVE:
Assemble eight complete runs, each King down to Ace in a single suit. A finished run
leaves the table automatically. Empty every column and the stock to win.

THE TABLE:
• 104 cards: two decks' worth of ranks in 1, 2 or 4 suits depending on difficulty
• 10 columns: the first four get 6 cards, the other six get 5; only the bottom card is face up
• Stock: the remaining 50 cards, dealt 10 at a time (5 deals)

READING THE TABLEAU:
• Each line is one column, top card first, bottom (playable) card last
• ## is a face-down card
• 8♠ is the eight of spades; suits are ♠ ♥ ♣ ♦
• Columns are numbered 0 to 9

MOVING CARDS:
• You may move the bottom count cards of a column if they are face up, one suit, and
  each card is one rank below the one above it
• The first moved card must land on a card exactly one rank higher (any suit), or on
  an empty column
• When a move exposes a face-down card it turns face up

DEALING:
• deal puts one face-up card on every column
• Some configurations refuse to deal while any column is empty

SCORING:
• Start at 500
• Every move costs 1 point (never below 0)
• Every completed run adds 100
• Undo costs 10 points on top of restoring the previous score

STRATEGY FOR AGENTS:
1. Call hints first; moves that turn over a face-down card or build same-suit runs come first
2. Prefer revealing face-down cards over shuffling face-up ones between columns
3. Keep empty columns for emergencies; they accept any run
4. Deal only when no useful move remains
5. Use describe_column to check a run before moving it

VICTORY CONDITIONS:
• All eight runs completed; the final score and elapsed time can then go to the leaderboard
  with submit_score

Good luck untangling the web!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func statusLine(state *engine.GameState) string {
	switch state.Status {
	case engine.StatusWon:
		return "🎉 VICTORY!"
	case engine.StatusNotStarted:
		return "Not started"
	default:
		return "Playing"
	}
}

func formatGameState(state *engine.GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s  Difficulty: %d suit(s)", statusLine(state), state.Difficulty)
	if state.Elapsed != "" {
		fmt.Fprintf(&b, "  Time: %s", state.Elapsed)
	}
	b.WriteString("\n")
	b.WriteString(engine.RenderTableau(state))
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s\n", state.Message)
	}
	return b.String()
}

func formatMoveResult(label string, result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s successful\n", label)
	} else {
		fmt.Fprintf(&b, "✗ %s failed: %s\n", label, result.Message)
	}

	for _, ev := range result.Events {
		if ev.Type == service.EventRunCompleted || ev.Type == service.EventVictory {
			fmt.Fprintf(&b, "★ %s\n", ev.Message)
		}
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nLegal moves: %d (call hints for the best ones)\n", len(result.PossibleMoves))
	}
	return b.String()
}

func formatHints(hints *service.HintResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggestion: %s\n", hints.Suggestion)
	fmt.Fprintf(&b, "Face-down cards: %d  Deals left: %d  Can deal: %v\n", hints.FaceDown, hints.StockDeals, hints.CanDeal)
	if len(hints.Moves) == 0 {
		b.WriteString("No useful moves.\n")
		return b.String()
	}
	b.WriteString("\nUseful moves:\n")
	for i, m := range hints.Moves {
		fmt.Fprintf(&b, "%d. from %d to %d, %d card(s)\n", i+1, m.From, m.To, m.Count)
	}
	return b.String()
}

func formatColumn(state *engine.GameState, column int) string {
	col := state.Columns[column]
	var b strings.Builder
	b.WriteString(engine.DescribeColumn(state, column))
	b.WriteString("\n")
	if len(col) == 0 {
		b.WriteString("Empty column: accepts any movable run.\n")
		return b.String()
	}
	faceDown := 0
	for _, card := range col {
		if !card.FaceUp {
			faceDown++
		}
	}
	run := engine.MovableRunLength(col)
	fmt.Fprintf(&b, "Cards: %d  Face down: %d  Movable run: %d\n", len(col), faceDown, run)
	bottom := col[len(col)-1]
	switch {
	case !bottom.FaceUp:
	case bottom.Value == engine.MinRankValue:
		b.WriteString("Bottom card is an Ace: nothing can be placed on it\n")
	default:
		fmt.Fprintf(&b, "Accepts a run starting with rank value %d\n", bottom.Value-1)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d of %d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, entry := range history.Moves {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		switch entry.Action {
		case "move":
			fmt.Fprintf(&b, "%s #%d move %d→%d x%d score=%d", status, entry.ActionNumber, entry.From, entry.To, entry.Count, entry.Score)
		default:
			fmt.Fprintf(&b, "%s #%d %s score=%d", status, entry.ActionNumber, entry.Action, entry.Score)
		}
		if entry.RunsSealed > 0 {
			fmt.Fprintf(&b, " runs+%d", entry.RunsSealed)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatLeaderboard(board *service.LeaderboardResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard: %d suit(s)\n\n", board.Difficulty)
	if len(board.Entries) == 0 {
		b.WriteString("No scores yet.\n")
		return b.String()
	}
	for i, e := range board.Entries {
		fmt.Fprintf(&b, "%2d. %-20s %6d  %3d moves  %s\n", i+1, e.Name, e.Score, e.Moves, e.Elapsed)
	}
	return b.String()
}
