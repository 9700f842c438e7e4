// Package trello provides the Trello REST API client used by the tool
// layer. Every outbound call passes through the sliding-window rate
// limiter, authenticates with a per-call credential pair, and maps
// failure statuses into the server's error taxonomy.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/credentials"
	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
	"github.com/skai-it/trello-mcp-server/pkg/trello"
)

// DefaultBaseURL is the Trello REST API base URL.
const DefaultBaseURL = "https://api.trello.com/1"

// defaultRetryBackoff is the fixed delay before the single retry of a
// request the API answered with 429. The rate limiter makes this path
// rare; it exists for quota shared with other clients of the same token.
const defaultRetryBackoff = 2 * time.Second

const userAgent = "Trello-MCP-Server/1.0.0"

// Config holds Trello client configuration.
type Config struct {
	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// RequestTimeout is the per-request timeout. Defaults to 30s.
	RequestTimeout time.Duration

	// MaxCalls and Window configure the rate limiter.
	MaxCalls int
	Window   time.Duration
}

// Client is the Trello API client. Safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *RateLimiter
	logger       *zap.Logger
	retryBackoff time.Duration
}

// NewClient creates a Trello client with its own rate limiter.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      NewRateLimiter(cfg.MaxCalls, cfg.Window, logger),
		logger:       logger.With(zap.String("component", "trello_client")),
		retryBackoff: defaultRetryBackoff,
	}
}

// Limiter exposes the rate limiter for health reporting and tests.
func (c *Client) Limiter() *RateLimiter {
	return c.limiter
}

// do performs one authenticated request. Each attempt (including the single
// 429 retry) is a separate outbound call with its own rate-limit admission.
func (c *Client) do(ctx context.Context, op, method, endpoint string, creds credentials.Credentials, params url.Values, out any) error {
	body, err := c.attempt(ctx, op, method, endpoint, creds, params)
	if errors.Is(err, internalerrors.ErrRateLimited) {
		c.logger.Warn("trello returned 429, retrying once",
			zap.String("endpoint", endpoint),
			zap.Duration("backoff", c.retryBackoff),
		)
		if sleepErr := sleepContext(ctx, c.retryBackoff); sleepErr != nil {
			return sleepErr
		}
		body, err = c.attempt(ctx, op, method, endpoint, creds, params)
	}
	if err != nil {
		return err
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return internalerrors.New("trello", op, internalerrors.ErrInternal,
			fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// attempt issues a single rate-limited HTTP request and returns the body.
func (c *Client) attempt(ctx context.Context, op, method, endpoint string, creds credentials.Credentials, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("key", creds.APIKey)
	params.Set("token", creds.Token)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, internalerrors.New("trello", op, internalerrors.ErrInternal, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("making trello request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalerrors.New("trello", op, internalerrors.ErrInternal,
			fmt.Errorf("network error: %w", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internalerrors.New("trello", op, internalerrors.ErrInternal,
			fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(op, resp.StatusCode, string(body))
	}
	return body, nil
}

// Board management

// ListBoards lists all open boards for the authenticated user.
func (c *Client) ListBoards(ctx context.Context, creds credentials.Credentials) ([]trello.Board, error) {
	params := url.Values{}
	params.Set("fields", "id,name,desc,closed,url,prefs")
	params.Set("filter", "open")

	var boards []trello.Board
	if err := c.do(ctx, "ListBoards", http.MethodGet, "members/me/boards", creds, params, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoard returns a board with its open lists, open cards, and members.
func (c *Client) GetBoard(ctx context.Context, creds credentials.Credentials, boardID string) (*trello.Board, error) {
	params := url.Values{}
	params.Set("fields", "id,name,desc,closed,url,prefs,labelNames")
	params.Set("lists", "open")
	params.Set("cards", "open")
	params.Set("members", "all")

	var board trello.Board
	if err := c.do(ctx, "GetBoard", http.MethodGet, "boards/"+url.PathEscape(boardID), creds, params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// CreateBoardRequest carries the fields for board creation. Omitted
// optional fields are not sent, so the service applies its defaults.
type CreateBoardRequest struct {
	Name           string
	Desc           string
	OrganizationID string
	DefaultLists   bool
	Prefs          map[string]any
}

// CreateBoard creates a new board.
func (c *Client) CreateBoard(ctx context.Context, creds credentials.Credentials, req CreateBoardRequest) (*trello.Board, error) {
	params := url.Values{}
	params.Set("name", req.Name)
	params.Set("defaultLists", strconv.FormatBool(req.DefaultLists))
	if req.Desc != "" {
		params.Set("desc", req.Desc)
	}
	if req.OrganizationID != "" {
		params.Set("idOrganization", req.OrganizationID)
	}
	for key, value := range req.Prefs {
		params.Set("prefs_"+key, fmt.Sprintf("%v", value))
	}

	var board trello.Board
	if err := c.do(ctx, "CreateBoard", http.MethodPost, "boards", creds, params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoardRequest carries the fields for a board update. Nil pointers
// mean "leave unchanged" and are not sent.
type UpdateBoardRequest struct {
	Name   *string
	Desc   *string
	Closed *bool
	Prefs  map[string]any
}

// UpdateBoard updates an existing board.
func (c *Client) UpdateBoard(ctx context.Context, creds credentials.Credentials, boardID string, req UpdateBoardRequest) (*trello.Board, error) {
	params := url.Values{}
	if req.Name != nil {
		params.Set("name", *req.Name)
	}
	if req.Desc != nil {
		params.Set("desc", *req.Desc)
	}
	if req.Closed != nil {
		params.Set("closed", strconv.FormatBool(*req.Closed))
	}
	for key, value := range req.Prefs {
		params.Set("prefs_"+key, fmt.Sprintf("%v", value))
	}

	var board trello.Board
	if err := c.do(ctx, "UpdateBoard", http.MethodPut, "boards/"+url.PathEscape(boardID), creds, params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// List management

// GetLists returns all open lists on a board.
func (c *Client) GetLists(ctx context.Context, creds credentials.Credentials, boardID string) ([]trello.List, error) {
	params := url.Values{}
	params.Set("fields", "id,name,closed,pos")
	params.Set("filter", "open")

	var lists []trello.List
	if err := c.do(ctx, "GetLists", http.MethodGet, "boards/"+url.PathEscape(boardID)+"/lists", creds, params, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateListRequest carries the fields for list creation.
type CreateListRequest struct {
	Name    string
	BoardID string
	Pos     string
}

// CreateList creates a new list on a board.
func (c *Client) CreateList(ctx context.Context, creds credentials.Credentials, req CreateListRequest) (*trello.List, error) {
	params := url.Values{}
	params.Set("name", req.Name)
	params.Set("idBoard", req.BoardID)
	if req.Pos != "" {
		params.Set("pos", req.Pos)
	}

	var list trello.List
	if err := c.do(ctx, "CreateList", http.MethodPost, "lists", creds, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Card management

// GetCards returns open cards from a list (preferred) or a board.
// Exactly one of boardID/listID must be non-empty; the tool layer
// validates this before calling.
func (c *Client) GetCards(ctx context.Context, creds credentials.Credentials, boardID, listID string) ([]trello.Card, error) {
	var endpoint string
	switch {
	case listID != "":
		endpoint = "lists/" + url.PathEscape(listID) + "/cards"
	case boardID != "":
		endpoint = "boards/" + url.PathEscape(boardID) + "/cards"
	default:
		return nil, internalerrors.New("trello", "GetCards", internalerrors.ErrBadRequest,
			fmt.Errorf("either board_id or list_id must be provided"))
	}

	params := url.Values{}
	params.Set("fields", "id,name,desc,closed,due,url,labels,members")
	params.Set("filter", "open")

	var cards []trello.Card
	if err := c.do(ctx, "GetCards", http.MethodGet, endpoint, creds, params, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCardRequest carries the fields for card creation.
type CreateCardRequest struct {
	Name    string
	ListID  string
	Desc    string
	Pos     string
	Due     *time.Time
	Labels  []string
	Members []string
}

// CreateCard creates a new card.
func (c *Client) CreateCard(ctx context.Context, creds credentials.Credentials, req CreateCardRequest) (*trello.Card, error) {
	params := url.Values{}
	params.Set("name", req.Name)
	params.Set("idList", req.ListID)
	if req.Desc != "" {
		params.Set("desc", req.Desc)
	}
	if req.Pos != "" {
		params.Set("pos", req.Pos)
	}
	if req.Due != nil {
		params.Set("due", req.Due.Format(time.RFC3339))
	}
	if len(req.Labels) > 0 {
		params.Set("idLabels", strings.Join(req.Labels, ","))
	}
	if len(req.Members) > 0 {
		params.Set("idMembers", strings.Join(req.Members, ","))
	}

	var card trello.Card
	if err := c.do(ctx, "CreateCard", http.MethodPost, "cards", creds, params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCardRequest carries the fields for a card update. Nil pointers mean
// "leave unchanged". DueSet distinguishes "leave due unchanged" (false)
// from "set or clear due" (true, with Due nil meaning clear).
type UpdateCardRequest struct {
	Name   *string
	Desc   *string
	Closed *bool
	ListID *string
	Pos    *string
	Due    *time.Time
	DueSet bool
}

// UpdateCard updates an existing card.
func (c *Client) UpdateCard(ctx context.Context, creds credentials.Credentials, cardID string, req UpdateCardRequest) (*trello.Card, error) {
	params := url.Values{}
	if req.Name != nil {
		params.Set("name", *req.Name)
	}
	if req.Desc != nil {
		params.Set("desc", *req.Desc)
	}
	if req.Closed != nil {
		params.Set("closed", strconv.FormatBool(*req.Closed))
	}
	if req.ListID != nil {
		params.Set("idList", *req.ListID)
	}
	if req.Pos != nil {
		params.Set("pos", *req.Pos)
	}
	if req.DueSet {
		if req.Due != nil {
			params.Set("due", req.Due.Format(time.RFC3339))
		} else {
			// Empty value clears the due date.
			params.Set("due", "")
		}
	}

	var card trello.Card
	if err := c.do(ctx, "UpdateCard", http.MethodPut, "cards/"+url.PathEscape(cardID), creds, params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddMemberToCard assigns a member to a card.
func (c *Client) AddMemberToCard(ctx context.Context, creds credentials.Credentials, cardID, memberID string) error {
	params := url.Values{}
	params.Set("value", memberID)

	return c.do(ctx, "AddMemberToCard", http.MethodPost,
		"cards/"+url.PathEscape(cardID)+"/idMembers", creds, params, nil)
}

// SearchCards searches for cards matching the query. When boardIDs is
// non-empty the search is scoped to those boards in a single call;
// unscoped fan-out across all accessible boards lives in the tool layer.
func (c *Client) SearchCards(ctx context.Context, creds credentials.Credentials, query string, boardIDs []string, limit int) ([]trello.Card, error) {
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("modelTypes", "cards")
	params.Set("cards_limit", strconv.Itoa(limit))
	if len(boardIDs) > 0 {
		params.Set("idBoards", strings.Join(boardIDs, ","))
	}

	var result trello.SearchResult
	if err := c.do(ctx, "SearchCards", http.MethodGet, "search", creds, params, &result); err != nil {
		return nil, err
	}
	return result.Cards, nil
}
