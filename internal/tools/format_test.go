package tools

import (
	"strings"
	"testing"
	"time"

	"github.com/skai-it/trello-mcp-server/pkg/trello"
)

func TestFormatBoards(t *testing.T) {
	t.Parallel()

	if got := formatBoards(nil); got != "📋 No boards found" {
		t.Errorf("formatBoards(nil) = %q", got)
	}

	got := formatBoards([]trello.Board{
		{ID: "b1", Name: "Roadmap", URL: "https://trello.com/b/b1", Desc: strings.Repeat("x", 150)},
		{ID: "b2"},
	})
	if !strings.Contains(got, "**Found 2 boards:**") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "**Roadmap** (`b1`)") {
		t.Errorf("missing board line: %q", got)
	}
	// Long descriptions are previewed, unnamed boards get a placeholder.
	if !strings.Contains(got, strings.Repeat("x", descPreviewLength)+"...") {
		t.Errorf("description not truncated: %q", got)
	}
	if !strings.Contains(got, "**Unnamed** (`b2`)") {
		t.Errorf("missing placeholder name: %q", got)
	}
	if !strings.Contains(got, "URL: N/A") {
		t.Errorf("missing URL placeholder: %q", got)
	}
}

func TestFormatBoardDetail(t *testing.T) {
	t.Parallel()

	cards := make([]trello.Card, 15)
	for i := range cards {
		cards[i] = trello.Card{ID: "c", Name: "Card"}
	}

	board := &trello.Board{
		ID: "b1", Name: "Roadmap", URL: "https://trello.com/b/b1",
		Lists:   []trello.List{{ID: "l1", Name: "Doing"}},
		Cards:   cards,
		Members: []trello.Member{{ID: "m1", Username: "pat"}},
	}

	got := formatBoardDetail(board)
	if !strings.Contains(got, "**Lists (1):**") {
		t.Errorf("missing lists section: %q", got)
	}
	if !strings.Contains(got, "... and 5 more cards") {
		t.Errorf("card preview not capped: %q", got)
	}
	if !strings.Contains(got, "• pat (`m1`)") {
		t.Errorf("missing member line: %q", got)
	}
}

func TestFormatCards_Source(t *testing.T) {
	t.Parallel()

	if got := formatCards("b1", "", nil); got != "🃏 No cards found in board `b1`" {
		t.Errorf("formatCards(board) = %q", got)
	}
	if got := formatCards("", "l1", nil); got != "🃏 No cards found in list `l1`" {
		t.Errorf("formatCards(list) = %q", got)
	}

	due := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	got := formatCards("", "l1", []trello.Card{
		{ID: "c1", Name: "Ship it", Due: &due, Labels: []trello.Label{{Name: "urgent"}}},
	})
	if !strings.Contains(got, "Due: 2025-07-01T12:00:00Z") {
		t.Errorf("missing due date: %q", got)
	}
	if !strings.Contains(got, "Labels: urgent") {
		t.Errorf("missing labels: %q", got)
	}
}

func TestFormatSearchResults(t *testing.T) {
	t.Parallel()

	got := formatSearchResults("deploy", nil, 0)
	if got != "🔍 No cards found for query: 'deploy'" {
		t.Errorf("formatSearchResults(empty) = %q", got)
	}

	got = formatSearchResults("deploy", []trello.Card{{ID: "c1", Name: "Deploy"}}, 2)
	if !strings.Contains(got, "**Found 1 cards for 'deploy':**") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "⚠️ 2 board(s) could not be searched") {
		t.Errorf("missing failure summary: %q", got)
	}
}

func TestMemberName(t *testing.T) {
	t.Parallel()

	if got := memberName(trello.Member{FullName: "Pat Doe", Username: "pat"}); got != "Pat Doe" {
		t.Errorf("memberName = %q", got)
	}
	if got := memberName(trello.Member{Username: "pat"}); got != "pat" {
		t.Errorf("memberName = %q", got)
	}
	if got := memberName(trello.Member{}); got != "Unknown" {
		t.Errorf("memberName = %q", got)
	}
}

func TestPosition(t *testing.T) {
	t.Parallel()

	if got := position(0); got != "N/A" {
		t.Errorf("position(0) = %q", got)
	}
	if got := position(16384); got != "16384" {
		t.Errorf("position(16384) = %q", got)
	}
	if got := position(0.5); got != "0.5" {
		t.Errorf("position(0.5) = %q", got)
	}
}
