package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chewsy/internal/suggest"
)

// terminalMessage is shown when the queue runs dry.
const terminalMessage = "🤷 There aren't any places left to eat. Try again?"

const (
	callbackNext     = "next"
	callbackList     = "list"
	callbackListPage = "listpage:"
)

const listingPageSize = 8

func suggestionText(s suggest.Suggestion) string {
	var b strings.Builder
	b.WriteString("🍽 ")
	b.WriteString(s.Name)
	if s.Hours != "" {
		b.WriteString("\n🕐 ")
		b.WriteString(s.Hours)
	}
	return b.String()
}

func suggestionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👎 Next", callbackNext),
			tgbotapi.NewInlineKeyboardButtonData("📋 All places", callbackList),
		),
	)
}

func terminatedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Start over", callbackNext),
			tgbotapi.NewInlineKeyboardButtonData("📋 All places", callbackList),
		),
	)
}

// listingText renders one page of the tabulated view.
func listingText(rows []suggest.Row, page int) string {
	start := page * listingPageSize
	end := start + listingPageSize
	if end > len(rows) {
		end = len(rows)
	}
	if start > len(rows) {
		start = len(rows)
	}

	var b strings.Builder
	b.WriteString("📋 All places\n\n")
	if pages := listingPages(rows); pages > 1 {
		fmt.Fprintf(&b, "Page %d of %d\n\n", page+1, pages)
	}
	for _, row := range rows[start:end] {
		flag := "⛔"
		if row.Viable {
			flag = "✅"
		}
		fmt.Fprintf(&b, "%s %s — %s\n", flag, row.Name, row.Hours)
	}
	if len(rows) == 0 {
		b.WriteString("The catalog is empty.\n")
	}
	return b.String()
}

func listingPages(rows []suggest.Row) int {
	return (len(rows) + listingPageSize - 1) / listingPageSize
}

func listingKeyboard(rows []suggest.Row, page int) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", fmt.Sprintf("%s%d", callbackListPage, page-1)))
	}
	if (page+1)*listingPageSize < len(rows) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Forward ➡️", fmt.Sprintf("%s%d", callbackListPage, page+1)))
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}

	keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Back to suggestions", callbackList),
	))

	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}
