package tools

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skai-it/trello-mcp-server/internal/credentials"
	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
	"github.com/skai-it/trello-mcp-server/internal/mcp"
	trelloclient "github.com/skai-it/trello-mcp-server/internal/trello"
	"github.com/skai-it/trello-mcp-server/pkg/trello"
)

// defaultSearchConcurrency bounds the per-board fan-out in search_cards.
// The rate limiter still paces the individual calls underneath.
const defaultSearchConcurrency = 4

// Executor runs tool operations against the Trello API with resolved
// credentials. It is shared by all tools and safe for concurrent use.
type Executor struct {
	client            *trelloclient.Client
	creds             *credentials.Manager
	logger            *zap.Logger
	searchConcurrency int
}

// NewExecutor creates the tool executor.
func NewExecutor(client *trelloclient.Client, creds *credentials.Manager, logger *zap.Logger) *Executor {
	if client == nil {
		panic("client cannot be nil")
	}
	if creds == nil {
		panic("credential manager cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		client:            client,
		creds:             creds,
		logger:            logger.With(zap.String("component", "tools")),
		searchConcurrency: defaultSearchConcurrency,
	}
}

// execContext carries the request context and the resolved credential pair
// into a tool run function.
type execContext struct {
	context.Context
	creds credentials.Credentials
}

// tool adapts one toolSpec to the mcp.Tool interface. Execution order:
// validate arguments, resolve credentials, run. A validation failure never
// reaches the network.
type tool struct {
	spec toolSpec
	exec *Executor
}

// Definition returns the tool's metadata with its generated input schema.
func (t *tool) Definition() mcp.ToolDefinition {
	return mcp.ToolDefinition{
		Name:        t.spec.name,
		Description: t.spec.description,
		InputSchema: schemaFor(t.spec.params, t.spec.oneOf),
	}
}

// Execute validates args, resolves credentials, and runs the tool.
func (t *tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}

	if err := validateArgs(t.spec.name, t.spec.params, args); err != nil {
		return "", err
	}
	if err := t.checkOneOf(args); err != nil {
		return "", err
	}

	explicit := explicitCredentials(args)
	creds, err := t.exec.creds.Resolve(ctx, explicit)
	if err != nil {
		return "", err
	}

	text, err := t.spec.run(execContext{Context: ctx, creds: creds}, args)
	if err != nil {
		// A rejected cached or provisioned pair is stale; wipe it so the
		// next call re-acquires. Explicit pairs never touch the cache.
		if explicit == nil && errors.Is(err, internalerrors.ErrUnauthorized) {
			t.exec.creds.Clear()
		}
		return "", err
	}
	return text, nil
}

// checkOneOf enforces that exactly one of the alternative parameters is set.
func (t *tool) checkOneOf(args map[string]any) error {
	if len(t.spec.oneOf) == 0 {
		return nil
	}

	set := 0
	for _, name := range t.spec.oneOf {
		if stringArg(args, name) != "" {
			set++
		}
	}
	switch set {
	case 1:
		return nil
	case 0:
		return badArgs(t.spec.name, "either "+alternativesText(t.spec.oneOf)+" must be provided")
	default:
		return badArgs(t.spec.name, "provide only one of "+alternativesText(t.spec.oneOf))
	}
}

func alternativesText(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += " or "
		}
		out += name
	}
	return out
}

// explicitCredentials returns the caller-supplied pair when both halves
// are present; a lone key or token falls through to the resolution chain.
func explicitCredentials(args map[string]any) *credentials.Credentials {
	apiKey := stringArg(args, "api_key")
	token := stringArg(args, "token")
	if apiKey == "" || token == "" {
		return nil
	}
	return &credentials.Credentials{APIKey: apiKey, Token: token}
}

// Tool run functions. Argument types were checked by validateArgs.

func (e *Executor) listBoards(ctx execContext, args map[string]any) (string, error) {
	boards, err := e.client.ListBoards(ctx, ctx.creds)
	if err != nil {
		return "", err
	}
	return formatBoards(boards), nil
}

func (e *Executor) getBoard(ctx execContext, args map[string]any) (string, error) {
	board, err := e.client.GetBoard(ctx, ctx.creds, stringArg(args, "board_id"))
	if err != nil {
		return "", err
	}
	return formatBoardDetail(board), nil
}

func (e *Executor) createBoard(ctx execContext, args map[string]any) (string, error) {
	req := trelloclient.CreateBoardRequest{
		Name:           stringArg(args, "name"),
		Desc:           stringArg(args, "desc"),
		OrganizationID: stringArg(args, "organization_id"),
		DefaultLists:   boolArg(args, "default_lists", true),
		Prefs:          objectArg(args, "prefs"),
	}

	board, err := e.client.CreateBoard(ctx, ctx.creds, req)
	if err != nil {
		return "", err
	}
	return formatBoardCreated(board), nil
}

func (e *Executor) updateBoard(ctx execContext, args map[string]any) (string, error) {
	req := trelloclient.UpdateBoardRequest{
		Name:   stringPtrArg(args, "name"),
		Desc:   stringPtrArg(args, "desc"),
		Closed: boolPtrArg(args, "closed"),
		Prefs:  objectArg(args, "prefs"),
	}

	board, err := e.client.UpdateBoard(ctx, ctx.creds, stringArg(args, "board_id"), req)
	if err != nil {
		return "", err
	}
	return formatBoardUpdated(board), nil
}

func (e *Executor) getLists(ctx execContext, args map[string]any) (string, error) {
	boardID := stringArg(args, "board_id")
	lists, err := e.client.GetLists(ctx, ctx.creds, boardID)
	if err != nil {
		return "", err
	}
	return formatLists(boardID, lists), nil
}

func (e *Executor) createList(ctx execContext, args map[string]any) (string, error) {
	req := trelloclient.CreateListRequest{
		Name:    stringArg(args, "name"),
		BoardID: stringArg(args, "board_id"),
		Pos:     positionArg(args, "pos"),
	}

	list, err := e.client.CreateList(ctx, ctx.creds, req)
	if err != nil {
		return "", err
	}
	return formatListCreated(list), nil
}

func (e *Executor) getCards(ctx execContext, args map[string]any) (string, error) {
	boardID := stringArg(args, "board_id")
	listID := stringArg(args, "list_id")

	cards, err := e.client.GetCards(ctx, ctx.creds, boardID, listID)
	if err != nil {
		return "", err
	}
	return formatCards(boardID, listID, cards), nil
}

func (e *Executor) createCard(ctx execContext, args map[string]any) (string, error) {
	due, _, err := dueArg("create_card", args)
	if err != nil {
		return "", err
	}

	req := trelloclient.CreateCardRequest{
		Name:    stringArg(args, "name"),
		ListID:  stringArg(args, "list_id"),
		Desc:    stringArg(args, "desc"),
		Pos:     positionArg(args, "pos"),
		Due:     due,
		Labels:  stringSliceArg(args, "labels"),
		Members: stringSliceArg(args, "members"),
	}

	card, err := e.client.CreateCard(ctx, ctx.creds, req)
	if err != nil {
		return "", err
	}
	return formatCardCreated(card), nil
}

func (e *Executor) updateCard(ctx execContext, args map[string]any) (string, error) {
	due, duePresent, err := dueArg("update_card", args)
	if err != nil {
		return "", err
	}

	req := trelloclient.UpdateCardRequest{
		Name:   stringPtrArg(args, "name"),
		Desc:   stringPtrArg(args, "desc"),
		Closed: boolPtrArg(args, "closed"),
		ListID: stringPtrArg(args, "list_id"),
		Pos:    positionPtrArg(args, "pos"),
		Due:    due,
		DueSet: duePresent,
	}

	card, err := e.client.UpdateCard(ctx, ctx.creds, stringArg(args, "card_id"), req)
	if err != nil {
		return "", err
	}
	return formatCardUpdated(card), nil
}

func (e *Executor) addMemberToCard(ctx execContext, args map[string]any) (string, error) {
	cardID := stringArg(args, "card_id")
	memberID := stringArg(args, "member_id")

	if err := e.client.AddMemberToCard(ctx, ctx.creds, cardID, memberID); err != nil {
		return "", err
	}
	return formatMemberAdded(cardID, memberID), nil
}

// searchCards runs a scoped search directly, or fans out one search per
// board when no scope was given. Per-board failures in the fan-out are
// logged and summarized; the call still succeeds with partial results.
func (e *Executor) searchCards(ctx execContext, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	boardIDs := stringSliceArg(args, "board_ids")
	limit := intArg(args, "limit", 50)

	if len(boardIDs) > 0 {
		cards, err := e.client.SearchCards(ctx, ctx.creds, query, boardIDs, limit)
		if err != nil {
			return "", err
		}
		return formatSearchResults(query, cards, 0), nil
	}

	boards, err := e.client.ListBoards(ctx, ctx.creds)
	if err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return formatSearchResults(query, nil, 0), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.searchConcurrency)

	perBoard := make([][]trello.Card, len(boards))
	var mu sync.Mutex
	failed := 0

	for i, board := range boards {
		g.Go(func() error {
			cards, searchErr := e.client.SearchCards(gctx, ctx.creds, query, []string{board.ID}, limit)
			if searchErr != nil {
				e.logger.Warn("board search failed",
					zap.String("board_id", board.ID),
					zap.Error(searchErr),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			perBoard[i] = cards
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]trello.Card, 0, limit)
	for _, cards := range perBoard {
		for _, card := range cards {
			if len(merged) == limit {
				break
			}
			merged = append(merged, card)
		}
	}

	return formatSearchResults(query, merged, failed), nil
}
