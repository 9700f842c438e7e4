// Package tools implements the fixed catalog of Trello MCP tools: board,
// list, and card management plus cross-board search. Each tool validates
// its arguments, resolves credentials, and calls the Trello API through
// the shared rate-limited client.
package tools

import (
	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
	"github.com/skai-it/trello-mcp-server/internal/mcp"
)

// toolSpec ties a tool's metadata and parameter table to its run function.
type toolSpec struct {
	name        string
	description string
	params      []paramSpec

	// oneOf lists parameter names of which exactly one must be provided.
	oneOf []string

	run func(ctx execContext, args map[string]any) (string, error)
}

// boardPrefsSchema describes the prefs object accepted by create_board
// and update_board.
var boardPrefsSchema = map[string]any{
	"permissionLevel": map[string]any{"type": "string", "enum": []string{"private", "org", "public"}},
	"voting":          map[string]any{"type": "string", "enum": []string{"disabled", "members", "observers", "org", "public"}},
	"comments":        map[string]any{"type": "string", "enum": []string{"disabled", "members", "observers", "org", "public"}},
	"background":      map[string]any{"type": "string", "description": "Board background"},
}

// catalog returns the fixed tool catalog in its stable listing order.
func catalog(exec *Executor) []toolSpec {
	return []toolSpec{
		{
			name:        "list_boards",
			description: "List all boards for the authenticated user (credentials optional - will prompt if needed)",
			params:      []paramSpec{},
			run:         exec.listBoards,
		},
		{
			name:        "get_board",
			description: "Get detailed information about a specific board",
			params: []paramSpec{
				{name: "board_id", typ: typeString, description: "ID of the board to retrieve", required: true},
			},
			run: exec.getBoard,
		},
		{
			name:        "create_board",
			description: "Create a new board",
			params: []paramSpec{
				{name: "name", typ: typeString, description: "Name of the board", required: true, maxLength: maxNameLength},
				{name: "desc", typ: typeString, description: "Description of the board"},
				{name: "organization_id", typ: typeString, description: "Organization ID (optional)"},
				{name: "default_lists", typ: typeBool, description: "Create default lists", defaultVal: true},
				{name: "prefs", typ: typeObject, description: "Board preferences", properties: boardPrefsSchema},
			},
			run: exec.createBoard,
		},
		{
			name:        "update_board",
			description: "Update an existing board",
			params: []paramSpec{
				{name: "board_id", typ: typeString, description: "ID of the board to update", required: true},
				{name: "name", typ: typeString, description: "New name for the board", maxLength: maxNameLength},
				{name: "desc", typ: typeString, description: "New description for the board"},
				{name: "closed", typ: typeBool, description: "Whether the board is closed"},
				{name: "prefs", typ: typeObject, description: "Board preferences to update", properties: boardPrefsSchema},
			},
			run: exec.updateBoard,
		},
		{
			name:        "get_lists",
			description: "Get all lists on a board",
			params: []paramSpec{
				{name: "board_id", typ: typeString, description: "ID of the board", required: true},
			},
			run: exec.getLists,
		},
		{
			name:        "create_list",
			description: "Create a new list on a board",
			params: []paramSpec{
				{name: "name", typ: typeString, description: "Name of the list", required: true, maxLength: maxNameLength},
				{name: "board_id", typ: typeString, description: "ID of the board", required: true},
				{name: "pos", typ: typePosition, description: "Position of the list"},
			},
			run: exec.createList,
		},
		{
			name:        "get_cards",
			description: "Get cards from a board or list",
			params: []paramSpec{
				{name: "board_id", typ: typeString, description: "ID of the board (optional if list_id provided)"},
				{name: "list_id", typ: typeString, description: "ID of the list (optional if board_id provided)"},
			},
			oneOf: []string{"board_id", "list_id"},
			run:   exec.getCards,
		},
		{
			name:        "create_card",
			description: "Create a new card",
			params: []paramSpec{
				{name: "name", typ: typeString, description: "Name of the card", required: true, maxLength: maxNameLength},
				{name: "list_id", typ: typeString, description: "ID of the list", required: true},
				{name: "desc", typ: typeString, description: "Description of the card"},
				{name: "pos", typ: typePosition, description: "Position of the card"},
				{name: "due", typ: typeString, description: "Due date (ISO format)"},
				{name: "labels", typ: typeStringArray, description: "Array of label IDs"},
				{name: "members", typ: typeStringArray, description: "Array of member IDs"},
			},
			run: exec.createCard,
		},
		{
			name:        "update_card",
			description: "Update an existing card",
			params: []paramSpec{
				{name: "card_id", typ: typeString, description: "ID of the card to update", required: true},
				{name: "name", typ: typeString, description: "New name for the card", maxLength: maxNameLength},
				{name: "desc", typ: typeString, description: "New description for the card"},
				{name: "closed", typ: typeBool, description: "Whether the card is closed"},
				{name: "list_id", typ: typeString, description: "Move card to this list ID"},
				{name: "pos", typ: typePosition, description: "New position of the card"},
				{name: "due", typ: typeString, description: "Due date (ISO format, null to remove)"},
			},
			run: exec.updateCard,
		},
		{
			name:        "add_member_to_card",
			description: "Add a member to a card",
			params: []paramSpec{
				{name: "card_id", typ: typeString, description: "ID of the card", required: true},
				{name: "member_id", typ: typeString, description: "ID of the member to add", required: true},
			},
			run: exec.addMemberToCard,
		},
		{
			name:        "search_cards",
			description: "Search for cards across boards",
			params: []paramSpec{
				{name: "query", typ: typeString, description: "Search query", required: true},
				{name: "board_ids", typ: typeStringArray, description: "Array of board IDs to search in (optional)"},
				{name: "limit", typ: typeInt, description: "Maximum number of results", defaultVal: 50, bounded: true, minInt: 1, maxInt: 1000},
			},
			run: exec.searchCards,
		},
	}
}

// registry implements mcp.ToolRegistry over the fixed catalog.
// The catalog never changes after construction, so reads are lock-free.
type registry struct {
	order []string
	tools map[string]*tool
}

// NewRegistry builds the tool registry bound to an executor.
func NewRegistry(exec *Executor) mcp.ToolRegistry {
	if exec == nil {
		panic("executor cannot be nil")
	}

	r := &registry{tools: make(map[string]*tool)}
	for _, spec := range catalog(exec) {
		t := &tool{spec: spec, exec: exec}
		r.order = append(r.order, spec.name)
		r.tools[spec.name] = t
	}
	return r
}

// GetTool retrieves a tool by name.
func (r *registry) GetTool(name string) (mcp.Tool, error) {
	t, exists := r.tools[name]
	if !exists {
		return nil, internalerrors.New("tools", "GetTool", internalerrors.ErrNotFound, mcp.ErrToolNotFound).
			WithContext("tool_name", name)
	}
	return t, nil
}

// ListTools returns definitions for all tools in catalog order.
func (r *registry) ListTools() []mcp.ToolDefinition {
	definitions := make([]mcp.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.tools[name].Definition())
	}
	return definitions
}
