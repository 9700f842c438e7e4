// Package trello defines the public payload types returned by the Trello
// REST API, shared between the API client and the tool layer.
package trello

import "time"

// Board represents a Trello board.
type Board struct {
	// ID is the board identifier.
	ID string `json:"id"`

	// Name is the board name.
	Name string `json:"name"`

	// Desc is the board description.
	Desc string `json:"desc,omitempty"`

	// Closed indicates whether the board is archived.
	Closed bool `json:"closed"`

	// URL is the canonical board URL.
	URL string `json:"url,omitempty"`

	// Prefs contains board preference settings.
	Prefs map[string]any `json:"prefs,omitempty"`

	// Lists contains the open lists when requested with the board.
	Lists []List `json:"lists,omitempty"`

	// Cards contains the open cards when requested with the board.
	Cards []Card `json:"cards,omitempty"`

	// Members contains the board members when requested with the board.
	Members []Member `json:"members,omitempty"`
}

// List represents a list on a Trello board.
type List struct {
	// ID is the list identifier.
	ID string `json:"id"`

	// Name is the list name.
	Name string `json:"name"`

	// Closed indicates whether the list is archived.
	Closed bool `json:"closed"`

	// Pos is the list position on the board.
	Pos float64 `json:"pos,omitempty"`

	// BoardID is the parent board identifier.
	BoardID string `json:"idBoard,omitempty"`
}

// Card represents a Trello card.
type Card struct {
	// ID is the card identifier.
	ID string `json:"id"`

	// Name is the card name.
	Name string `json:"name"`

	// Desc is the card description.
	Desc string `json:"desc,omitempty"`

	// Closed indicates whether the card is archived.
	Closed bool `json:"closed"`

	// URL is the canonical card URL.
	URL string `json:"url,omitempty"`

	// Due is the due date, if set.
	Due *time.Time `json:"due,omitempty"`

	// ListID is the parent list identifier.
	ListID string `json:"idList,omitempty"`

	// Labels contains the labels attached to the card.
	Labels []Label `json:"labels,omitempty"`

	// Members contains the members assigned to the card.
	Members []Member `json:"members,omitempty"`
}

// Label represents a label attached to a card.
type Label struct {
	// ID is the label identifier.
	ID string `json:"id"`

	// Name is the label name.
	Name string `json:"name,omitempty"`

	// Color is the label color.
	Color string `json:"color,omitempty"`
}

// Member represents a Trello member.
type Member struct {
	// ID is the member identifier.
	ID string `json:"id"`

	// Username is the member's login name.
	Username string `json:"username,omitempty"`

	// FullName is the member's display name.
	FullName string `json:"fullName,omitempty"`
}

// SearchResult is the envelope returned by the Trello search endpoint.
type SearchResult struct {
	// Cards contains the matching cards.
	Cards []Card `json:"cards"`
}
