package pages

import (
	"fmt"
	"strings"

	"github.com/Adiar1/Crackd/internal/models"
)

// FormatQuestion renders one active question into its fixed text block. The
// choice lines always appear in A/B/C/D order; the correct one is bolded.
func FormatQuestion(q *models.Question) Block {
	text := fmt.Sprintf(
		"<b>Question ID:</b> %d\n<b>Question:</b> %s\n%s\n<b>Domain/Skill:</b> %s ➔ %s\n<b>Difficulty:</b> %s\n\n",
		q.ID, q.Text, formatChoices(q.CorrectAnswer, q.OptionA, q.OptionB, q.OptionC, q.OptionD),
		q.Domain, q.Skill, Capitalize(q.Difficulty),
	)
	return Block{Text: text, Length: len(text)}
}

// FormatArchived renders an archived question, which carries an extra line
// with the archive timestamp in human-readable form.
func FormatArchived(a *models.QuestionArchive) Block {
	text := fmt.Sprintf(
		"<b>Question ID:</b> %d\n<b>Question:</b> %s\n%s\n<b>Domain/Skill:</b> %s ➔ %s\n<b>Difficulty:</b> %s\n<b>Archived:</b> %s UTC\n\n",
		a.ID, a.Text, formatChoices(a.CorrectAnswer, a.OptionA, a.OptionB, a.OptionC, a.OptionD),
		a.Domain, a.Skill, Capitalize(a.Difficulty),
		a.ArchivedAt.UTC().Format("January 2, 2006 at 3:04 PM"),
	)
	return Block{Text: text, Length: len(text)}
}

func formatChoices(correct string, a, b, c, d string) string {
	letters := []string{"A", "B", "C", "D"}
	texts := []string{a, b, c, d}
	lines := make([]string, 4)
	for i, letter := range letters {
		line := fmt.Sprintf("%s) %s", letter, texts[i])
		if letter == strings.ToUpper(correct) {
			line = "<b>" + line + "</b>"
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Capitalize uppercases the first byte, used for difficulty labels.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
