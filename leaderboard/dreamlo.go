package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDreamloURL is the public dreamlo endpoint. It only speaks plain HTTP.
const DefaultDreamloURL = "http://dreamlo.com/lb"

// DreamloBoard talks to a dreamlo public leaderboard, optionally through a CORS proxy
// that wraps responses as {"contents": "<body>"}.
//
// dreamlo keys entries by name only, so the difficulty is folded into the submitted
// name ("alice_2s") and repeated in the text field along with moves and elapsed time.
type DreamloBoard struct {
	BaseURL    string
	PublicKey  string
	PrivateKey string
	ProxyURL   string
	Client     *http.Client
}

// NewDreamloBoard creates a dreamlo client with a 10 second timeout
func NewDreamloBoard(publicKey, privateKey, proxyURL string) *DreamloBoard {
	return &DreamloBoard{
		BaseURL:    DefaultDreamloURL,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		ProxyURL:   proxyURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

var difficultySuffix = regexp.MustCompile(`_([124])s$`)

type dreamloEntry struct {
	Name    string `json:"name"`
	Score   string `json:"score"`
	Seconds string `json:"seconds"`
	Text    string `json:"text"`
	Date    string `json:"date"`
}

type dreamloResponse struct {
	Dreamlo struct {
		Leaderboard *struct {
			Entry json.RawMessage `json:"entry"`
		} `json:"leaderboard"`
	} `json:"dreamlo"`
}

type proxyResponse struct {
	Contents *string `json:"contents"`
}

// Submit adds the entry. dreamlo itself keeps only the best score per name.
func (d *DreamloBoard) Submit(ctx context.Context, entry Entry) (bool, error) {
	entry = Normalize(entry)
	if err := Validate(entry); err != nil {
		return false, err
	}
	if d.PrivateKey == "" {
		return false, fmt.Errorf("%w: dreamlo private key not configured", ErrUnavailable)
	}

	name := fmt.Sprintf("%s_%ds", strings.ReplaceAll(entry.Name, "/", ""), entry.Difficulty)
	text := fmt.Sprintf("d%d m%d t%s", entry.Difficulty, entry.Moves, entry.Elapsed)
	target := fmt.Sprintf("%s/%s/add/%s/%d/%d/%s",
		d.BaseURL, d.PrivateKey, url.PathEscape(name), entry.Score, elapsedSeconds(entry.Elapsed), url.PathEscape(text))

	if _, err := d.get(ctx, target); err != nil {
		return false, err
	}
	return true, nil
}

// Top fetches the whole board and keeps the best entries for difficulty
func (d *DreamloBoard) Top(ctx context.Context, difficulty, limit int) ([]Entry, error) {
	if !ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: difficulty must be 1, 2 or 4, got %d", ErrInvalidEntry, difficulty)
	}
	if d.PublicKey == "" {
		return nil, fmt.Errorf("%w: dreamlo public key not configured", ErrUnavailable)
	}

	body, err := d.get(ctx, fmt.Sprintf("%s/%s/json", d.BaseURL, d.PublicKey))
	if err != nil {
		return nil, err
	}

	raw, err := parseDreamlo(body)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, r := range raw {
		e, ok := r.toEntry()
		if ok && e.Difficulty == difficulty {
			entries = append(entries, e)
		}
	}
	return rank(entries, clampLimit(limit)), nil
}

// get fetches target, unwrapping the proxy envelope when a proxy is configured
func (d *DreamloBoard) get(ctx context.Context, target string) ([]byte, error) {
	reqURL := target
	if d.ProxyURL != "" {
		reqURL = d.ProxyURL + url.QueryEscape(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if d.ProxyURL == "" {
		return body, nil
	}

	var wrapped proxyResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: bad proxy response: %v", ErrUnavailable, err)
	}
	if wrapped.Contents == nil {
		return nil, fmt.Errorf("%w: no content from proxy", ErrUnavailable)
	}
	return []byte(*wrapped.Contents), nil
}

// parseDreamlo accepts a null leaderboard, a single entry object or an entry array
func parseDreamlo(body []byte) ([]dreamloEntry, error) {
	var resp dreamloResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: bad leaderboard payload: %v", ErrUnavailable, err)
	}
	if resp.Dreamlo.Leaderboard == nil || len(resp.Dreamlo.Leaderboard.Entry) == 0 {
		return nil, nil
	}

	raw := resp.Dreamlo.Leaderboard.Entry
	var list []dreamloEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single dreamloEntry
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("%w: bad leaderboard entry: %v", ErrUnavailable, err)
	}
	return []dreamloEntry{single}, nil
}

func (r dreamloEntry) toEntry() (Entry, bool) {
	score, err := strconv.Atoi(strings.TrimSpace(r.Score))
	if err != nil {
		return Entry{}, false
	}

	e := Entry{Name: r.Name, Score: score}
	if m := difficultySuffix.FindStringSubmatch(r.Name); m != nil {
		e.Difficulty, _ = strconv.Atoi(m[1])
		e.Name = strings.TrimSuffix(r.Name, m[0])
	}
	for _, field := range strings.Fields(r.Text) {
		switch {
		case strings.HasPrefix(field, "d") && e.Difficulty == 0:
			e.Difficulty, _ = strconv.Atoi(field[1:])
		case strings.HasPrefix(field, "m"):
			e.Moves, _ = strconv.Atoi(field[1:])
		case strings.HasPrefix(field, "t"):
			e.Elapsed = field[1:]
		}
	}
	if e.Difficulty == 0 {
		e.Difficulty = 1
	}
	if t, err := time.Parse("1/2/2006 3:04:05 PM", r.Date); err == nil {
		e.CreatedAt = t
	}
	return e, true
}

// elapsedSeconds converts mm:ss into seconds, returning 0 when malformed
func elapsedSeconds(elapsed string) int {
	parts := strings.Split(elapsed, ":")
	if len(parts) != 2 {
		return 0
	}
	m, err1 := strconv.Atoi(parts[0])
	s, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return m*60 + s
}
