package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/surface"
)

// ChatSurface implements surface.Surface for one chat and one initiating
// user. Prompts suspend on the registry and resume when the update handler
// dispatches that user's input back to them.
type ChatSurface struct {
	client      *Client
	reg         *Registry
	chatID      int64
	userID      int64
	pagerExpiry time.Duration
}

func NewChatSurface(client *Client, reg *Registry, chatID, userID int64, pagerExpiry time.Duration) *ChatSurface {
	return &ChatSurface{
		client:      client,
		reg:         reg,
		chatID:      chatID,
		userID:      userID,
		pagerExpiry: pagerExpiry,
	}
}

func renderText(p pages.Page) string {
	var sb strings.Builder
	if p.Title != "" {
		sb.WriteString("<b>" + p.Title + "</b>\n\n")
	}
	if p.Description != "" {
		sb.WriteString(p.Description)
		if !strings.HasSuffix(p.Description, "\n") {
			sb.WriteString("\n")
		}
	}
	for _, f := range p.Fields {
		sb.WriteString("\n<b>" + f.Name + "</b>\n" + f.Value + "\n")
	}
	if p.Footer != "" {
		sb.WriteString("\n<i>" + p.Footer + "</i>")
	}
	return sb.String()
}

func (s *ChatSurface) ShowChoices(ctx context.Context, p pages.Page, choices []surface.Choice, maxSelectable int) ([]string, error) {
	if maxSelectable <= 1 {
		return s.showSingle(ctx, p, choices)
	}
	_, values, err := s.showMulti(ctx, p, choices, []surface.Choice{{Label: "Done", Value: "done"}}, maxSelectable)
	return values, err
}

func (s *ChatSurface) ShowActionChoices(ctx context.Context, p pages.Page, choices []surface.Choice, actions []surface.Choice) (string, []string, error) {
	return s.showMulti(ctx, p, choices, actions, len(choices))
}

func (s *ChatSurface) showSingle(ctx context.Context, p pages.Page, choices []surface.Choice) ([]string, error) {
	msgID, err := s.client.SendMessage(s.chatID, renderText(p), "HTML", singleChoiceKeyboard(choices))
	if err != nil {
		return nil, err
	}

	ch, cancel := s.reg.AwaitCallback(s.chatID, msgID, s.userID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil, surface.ErrCancelled
			}
			idx, ok := parseIndex(ev.Data, "sel:")
			if !ok || idx >= len(choices) {
				continue
			}
			s.client.AnswerCallbackQuery(ev.CallbackID, "", false)
			return []string{choices[idx].Value}, nil
		}
	}
}

func (s *ChatSurface) showMulti(ctx context.Context, p pages.Page, choices, actions []surface.Choice, max int) (string, []string, error) {
	text := renderText(p)
	selected := make(map[int]bool)

	msgID, err := s.client.SendMessage(s.chatID, text, "HTML", multiChoiceKeyboard(choices, selected, actions))
	if err != nil {
		return "", nil, err
	}

	ch, cancel := s.reg.AwaitCallback(s.chatID, msgID, s.userID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return "", nil, surface.ErrCancelled
			}

			if idx, ok := parseIndex(ev.Data, "tgl:"); ok && idx < len(choices) {
				if !selected[idx] && len(selected) >= max {
					s.client.AnswerCallbackQuery(ev.CallbackID, fmt.Sprintf("At most %d selections.", max), true)
					continue
				}
				if selected[idx] {
					delete(selected, idx)
				} else {
					selected[idx] = true
				}
				s.client.AnswerCallbackQuery(ev.CallbackID, "", false)
				s.client.EditMessageText(s.chatID, msgID, text, "HTML", multiChoiceKeyboard(choices, selected, actions))
				continue
			}

			if idx, ok := parseIndex(ev.Data, "act:"); ok && idx < len(actions) {
				// Cancelling must work with nothing selected.
				if len(selected) == 0 && actions[idx].Value != "cancel" {
					s.client.AnswerCallbackQuery(ev.CallbackID, "Please select at least one option first.", true)
					continue
				}
				s.client.AnswerCallbackQuery(ev.CallbackID, "", false)

				var values []string
				for i := range choices {
					if selected[i] {
						values = append(values, choices[i].Value)
					}
				}
				return actions[idx].Value, values, nil
			}
		}
	}
}

func (s *ChatSurface) RenderPage(ctx context.Context, p pages.Page) (surface.MessageRef, error) {
	msgID, err := s.client.SendMessage(s.chatID, renderText(p), "HTML", nil)
	if err != nil {
		return surface.MessageRef{}, err
	}
	if p.ImageURL != "" {
		if _, err := s.client.SendPhoto(s.chatID, p.ImageURL, "", ""); err != nil {
			return surface.MessageRef{}, err
		}
	}
	return surface.MessageRef{ChatID: s.chatID, MessageID: msgID}, nil
}

func (s *ChatSurface) EditPage(ctx context.Context, ref surface.MessageRef, p pages.Page) error {
	return s.client.EditMessageText(ref.ChatID, ref.MessageID, renderText(p), "HTML", nil)
}

// RenderPager shows the first page with prev/next buttons and keeps serving
// navigation in the background until the pager expires. It does not block
// the calling flow.
func (s *ChatSurface) RenderPager(ctx context.Context, ps []pages.Page) error {
	if len(ps) == 0 {
		return nil
	}
	if len(ps) == 1 {
		_, err := s.RenderPage(ctx, ps[0])
		return err
	}

	msgID, err := s.client.SendMessage(s.chatID, renderText(ps[0]), "HTML", pagerKeyboard(0, len(ps)))
	if err != nil {
		return err
	}

	ch, cancel := s.reg.AwaitCallback(s.chatID, msgID, s.userID)
	go s.servePager(msgID, ps, ch, cancel)
	return nil
}

func (s *ChatSurface) servePager(msgID int64, ps []pages.Page, ch <-chan Event, cancel func()) {
	defer cancel()

	expiry := time.NewTimer(s.pagerExpiry)
	defer expiry.Stop()

	idx := 0
	for {
		select {
		case <-expiry.C:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			switch ev.Data {
			case "pg:prev":
				if idx > 0 {
					idx--
				}
			case "pg:next":
				if idx < len(ps)-1 {
					idx++
				}
			default:
				continue
			}
			s.client.AnswerCallbackQuery(ev.CallbackID, "", false)
			s.client.EditMessageText(s.chatID, msgID, renderText(ps[idx]), "HTML", pagerKeyboard(idx, len(ps)))
		}
	}
}

func (s *ChatSurface) CollectFreeText(ctx context.Context, fields []surface.FieldSpec) (map[string]string, error) {
	out := make(map[string]string, len(fields))

	for _, f := range fields {
		prompt := "<b>" + f.Label + "</b>"
		if f.Placeholder != "" {
			prompt += "\n" + f.Placeholder
		}
		if f.Optional {
			prompt += "\n\nSend - to skip."
		}
		if _, err := s.client.SendMessage(s.chatID, prompt, "HTML", nil); err != nil {
			return nil, err
		}

		ch, cancel := s.reg.AwaitText(s.chatID, s.userID)
		select {
		case <-ctx.Done():
			cancel()
			return nil, ctx.Err()
		case ev, ok := <-ch:
			cancel()
			if !ok {
				return nil, surface.ErrCancelled
			}
			text := strings.TrimSpace(ev.Text)
			if f.Optional && text == "-" {
				text = ""
			}
			if f.MaxLen > 0 && len(text) > f.MaxLen {
				text = text[:f.MaxLen]
			}
			out[f.Key] = text
		}
	}
	return out, nil
}

func (s *ChatSurface) Notify(ctx context.Context, text string) error {
	_, err := s.client.SendMessage(s.chatID, text, "HTML", nil)
	return err
}

func parseIndex(data, prefix string) (int, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(data[len(prefix):])
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
