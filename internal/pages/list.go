package pages

import (
	"fmt"
	"strings"
)

// Block is one formatted record ready for list packing.
type Block struct {
	Text   string
	Length int
}

// BuildList packs formatted record blocks into description pages under the
// MaxListChars budget. A block too large for a single page is split at the
// last newline before the budget (hard cut when no newline is in range) and
// each fragment becomes its own page. Titles and footers are rewritten in a
// second pass once the final page count is known.
func BuildList(blocks []Block, title string) []Page {
	return buildList(blocks, title, MaxListChars)
}

func buildList(blocks []Block, title string, maxChars int) []Page {
	var out []Page
	var cur *Page
	count := 0

	flush := func() {
		if cur != nil && cur.Description != "" {
			out = append(out, *cur)
		}
		cur = nil
		count = 0
	}

	for _, blk := range blocks {
		if blk.Length > maxChars {
			flush()
			for _, chunk := range splitAtNewlines(blk.Text, maxChars) {
				out = append(out, Page{Title: title, Description: chunk})
			}
			continue
		}

		if cur == nil || count+blk.Length > maxChars {
			flush()
			cur = &Page{Title: title}
		}
		cur.Description += blk.Text
		count += blk.Length
	}
	flush()

	total := len(out)
	for i := range out {
		out[i].Title = fmt.Sprintf("%s (Page %d/%d)", title, i+1, total)
		out[i].Footer = fmt.Sprintf("Page %d of %d", i+1, total)
	}
	return out
}

// splitAtNewlines cuts text into chunks of at most maxChars, preferring the
// last newline inside the window. Leading whitespace introduced by the cut is
// trimmed from the remainder, so re-joining the chunks loses nothing else.
func splitAtNewlines(text string, maxChars int) []string {
	var chunks []string
	remaining := text
	for remaining != "" {
		if len(remaining) <= maxChars {
			chunks = append(chunks, remaining)
			break
		}
		split := strings.LastIndex(remaining[:maxChars], "\n")
		if split <= 0 {
			split = maxChars
		}
		chunks = append(chunks, remaining[:split])
		remaining = strings.TrimLeft(remaining[split:], " \n")
	}
	return chunks
}
