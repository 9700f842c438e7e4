package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/skai-it/trello-mcp-server/pkg/trello"
)

// Result text formatting. Tools return markdown for human consumption by
// the MCP client; identifiers are rendered in backticks so they can be
// copied into follow-up calls.

const (
	descPreviewLength = 100
	boardCardPreview  = 10
)

func formatBoards(boards []trello.Board) string {
	if len(boards) == 0 {
		return "📋 No boards found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Found %d boards:**\n\n", len(boards))
	for i, board := range boards {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• **%s** (`%s`)\n", nameOr(board.Name), board.ID)
		fmt.Fprintf(&b, "  URL: %s\n", valueOr(board.URL))
		if board.Desc != "" {
			fmt.Fprintf(&b, "  Description: %s\n", preview(board.Desc))
		}
	}
	return b.String()
}

func formatBoardDetail(board *trello.Board) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Board: %s**\n\n", nameOr(board.Name))
	fmt.Fprintf(&b, "**ID:** `%s`\n", board.ID)
	fmt.Fprintf(&b, "**URL:** %s\n", valueOr(board.URL))
	fmt.Fprintf(&b, "**Closed:** %s\n", yesNo(board.Closed))
	if board.Desc != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", board.Desc)
	}

	if len(board.Lists) > 0 {
		fmt.Fprintf(&b, "\n**Lists (%d):**\n", len(board.Lists))
		for _, list := range board.Lists {
			fmt.Fprintf(&b, "• %s (`%s`)\n", nameOr(list.Name), list.ID)
		}
	}

	if len(board.Cards) > 0 {
		fmt.Fprintf(&b, "\n**Cards (%d):**\n", len(board.Cards))
		shown := board.Cards
		if len(shown) > boardCardPreview {
			shown = shown[:boardCardPreview]
		}
		for _, card := range shown {
			fmt.Fprintf(&b, "• %s (`%s`)\n", nameOr(card.Name), card.ID)
		}
		if len(board.Cards) > boardCardPreview {
			fmt.Fprintf(&b, "... and %d more cards\n", len(board.Cards)-boardCardPreview)
		}
	}

	if len(board.Members) > 0 {
		fmt.Fprintf(&b, "\n**Members (%d):**\n", len(board.Members))
		for _, member := range board.Members {
			fmt.Fprintf(&b, "• %s (`%s`)\n", memberName(member), member.ID)
		}
	}

	return b.String()
}

func formatBoardCreated(board *trello.Board) string {
	var b strings.Builder
	b.WriteString("✅ **Board created successfully!**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", board.Name)
	fmt.Fprintf(&b, "**ID:** `%s`\n", board.ID)
	fmt.Fprintf(&b, "**URL:** %s\n", board.URL)
	if board.Desc != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", board.Desc)
	}
	return b.String()
}

func formatBoardUpdated(board *trello.Board) string {
	var b strings.Builder
	b.WriteString("✅ **Board updated successfully!**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", board.Name)
	fmt.Fprintf(&b, "**ID:** `%s`\n", board.ID)
	fmt.Fprintf(&b, "**URL:** %s\n", board.URL)
	fmt.Fprintf(&b, "**Closed:** %s\n", yesNo(board.Closed))
	return b.String()
}

func formatLists(boardID string, lists []trello.List) string {
	if len(lists) == 0 {
		return fmt.Sprintf("📝 No lists found on board `%s`", boardID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 **Found %d lists:**\n\n", len(lists))
	for i, list := range lists {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• **%s** (`%s`)\n", nameOr(list.Name), list.ID)
		fmt.Fprintf(&b, "  Position: %s\n", position(list.Pos))
		fmt.Fprintf(&b, "  Closed: %s\n", yesNo(list.Closed))
	}
	return b.String()
}

func formatListCreated(list *trello.List) string {
	var b strings.Builder
	b.WriteString("✅ **List created successfully!**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", list.Name)
	fmt.Fprintf(&b, "**ID:** `%s`\n", list.ID)
	fmt.Fprintf(&b, "**Board ID:** `%s`\n", list.BoardID)
	fmt.Fprintf(&b, "**Position:** %s\n", position(list.Pos))
	return b.String()
}

func formatCards(boardID, listID string, cards []trello.Card) string {
	source := fmt.Sprintf("board `%s`", boardID)
	if listID != "" {
		source = fmt.Sprintf("list `%s`", listID)
	}

	if len(cards) == 0 {
		return fmt.Sprintf("🃏 No cards found in %s", source)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🃏 **Found %d cards in %s:**\n\n", len(cards), source)
	for i, card := range cards {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCardEntry(&b, card)
		if len(card.Labels) > 0 {
			names := make([]string, 0, len(card.Labels))
			for _, label := range card.Labels {
				names = append(names, nameOr(label.Name))
			}
			fmt.Fprintf(&b, "  Labels: %s\n", strings.Join(names, ", "))
		}
	}
	return b.String()
}

func formatCardCreated(card *trello.Card) string {
	var b strings.Builder
	b.WriteString("✅ **Card created successfully!**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", card.Name)
	fmt.Fprintf(&b, "**ID:** `%s`\n", card.ID)
	fmt.Fprintf(&b, "**List ID:** `%s`\n", card.ListID)
	fmt.Fprintf(&b, "**URL:** %s\n", card.URL)
	if card.Desc != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", card.Desc)
	}
	if card.Due != nil {
		fmt.Fprintf(&b, "**Due:** %s\n", card.Due.Format(time.RFC3339))
	}
	return b.String()
}

func formatCardUpdated(card *trello.Card) string {
	var b strings.Builder
	b.WriteString("✅ **Card updated successfully!**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", card.Name)
	fmt.Fprintf(&b, "**ID:** `%s`\n", card.ID)
	fmt.Fprintf(&b, "**List ID:** `%s`\n", card.ListID)
	fmt.Fprintf(&b, "**URL:** %s\n", card.URL)
	fmt.Fprintf(&b, "**Closed:** %s\n", yesNo(card.Closed))
	return b.String()
}

func formatMemberAdded(cardID, memberID string) string {
	var b strings.Builder
	b.WriteString("✅ **Member added to card successfully!**\n\n")
	fmt.Fprintf(&b, "**Card ID:** `%s`\n", cardID)
	fmt.Fprintf(&b, "**Member ID:** `%s`\n", memberID)
	return b.String()
}

func formatSearchResults(query string, cards []trello.Card, failedBoards int) string {
	var b strings.Builder

	if len(cards) == 0 {
		fmt.Fprintf(&b, "🔍 No cards found for query: '%s'", query)
	} else {
		fmt.Fprintf(&b, "🔍 **Found %d cards for '%s':**\n\n", len(cards), query)
		for i, card := range cards {
			if i > 0 {
				b.WriteString("\n")
			}
			writeCardEntry(&b, card)
		}
	}

	if failedBoards > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d board(s) could not be searched", failedBoards)
	}
	return b.String()
}

// writeCardEntry renders the shared card bullet used by card listings.
func writeCardEntry(b *strings.Builder, card trello.Card) {
	fmt.Fprintf(b, "• **%s** (`%s`)\n", nameOr(card.Name), card.ID)
	if card.Desc != "" {
		fmt.Fprintf(b, "  Description: %s\n", preview(card.Desc))
	}
	fmt.Fprintf(b, "  URL: %s\n", valueOr(card.URL))
	if card.Due != nil {
		fmt.Fprintf(b, "  Due: %s\n", card.Due.Format(time.RFC3339))
	}
}

func preview(s string) string {
	if len(s) > descPreviewLength {
		return s[:descPreviewLength] + "..."
	}
	return s
}

func nameOr(name string) string {
	if name == "" {
		return "Unnamed"
	}
	return name
}

func valueOr(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func memberName(m trello.Member) string {
	if m.FullName != "" {
		return m.FullName
	}
	if m.Username != "" {
		return m.Username
	}
	return "Unknown"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func position(pos float64) string {
	if pos == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", pos)
}
