package telegram

import (
	"fmt"
	"unicode/utf8"

	"github.com/Adiar1/Crackd/internal/surface"
)

// Callback data is limited to 64 bytes, so option buttons carry the option's
// index into the choice slice rather than its value.

func singleChoiceKeyboard(choices []surface.Choice) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for i, c := range choices {
		rows = append(rows, []InlineKeyboardButton{
			{Text: trimLabel(c.Label), CallbackData: fmt.Sprintf("sel:%d", i)},
		})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func multiChoiceKeyboard(choices []surface.Choice, selected map[int]bool, actions []surface.Choice) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for i, c := range choices {
		label := trimLabel(c.Label)
		if selected[i] {
			label = "✅ " + label
		}
		rows = append(rows, []InlineKeyboardButton{
			{Text: label, CallbackData: fmt.Sprintf("tgl:%d", i)},
		})
	}

	var actionRow []InlineKeyboardButton
	for i, a := range actions {
		actionRow = append(actionRow, InlineKeyboardButton{
			Text: a.Label, CallbackData: fmt.Sprintf("act:%d", i),
		})
	}
	rows = append(rows, actionRow)
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func pagerKeyboard(current, total int) *InlineKeyboardMarkup {
	var row []InlineKeyboardButton
	if current > 0 {
		row = append(row, InlineKeyboardButton{Text: "◀️", CallbackData: "pg:prev"})
	}
	if current < total-1 {
		row = append(row, InlineKeyboardButton{Text: "▶️", CallbackData: "pg:next"})
	}
	if len(row) == 0 {
		return nil
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}}
}

// DailyKeyboard offers the four answer buttons plus the details button for a
// broadcast question.
func DailyKeyboard(questionID uint) *InlineKeyboardMarkup {
	var row []InlineKeyboardButton
	for _, letter := range []string{"A", "B", "C", "D"} {
		row = append(row, InlineKeyboardButton{
			Text:         letter,
			CallbackData: fmt.Sprintf("d:ans:%d:%s", questionID, letter),
		})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		row,
		{{Text: "View Details", CallbackData: fmt.Sprintf("d:det:%d", questionID)}},
	}}
}

// ArchiveShortcutKeyboard is the admin-only archive button sent alongside a
// daily broadcast.
func ArchiveShortcutKeyboard(questionID uint) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Archive Question", CallbackData: fmt.Sprintf("d:arc:%d", questionID)}},
	}}
}

func trimLabel(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	cut := max - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
