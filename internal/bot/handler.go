// Package bot routes incoming Telegram updates: slash commands start the
// interactive flows, everything else is dispatched to whichever prompt is
// waiting for it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Adiar1/Crackd/internal/archiveflow"
	"github.com/Adiar1/Crackd/internal/daily"
	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/surface"
	"github.com/Adiar1/Crackd/internal/taxonomy"
	"github.com/Adiar1/Crackd/internal/telegram"
	"github.com/Adiar1/Crackd/internal/wizard"
)

const helpText = `<b>Crackd SAT Practice Bot</b>

/stats - Your overall and per-skill accuracy
/leaderboard - Top users by accuracy or total correct

Admin commands:
/addquestion - Add a new SAT question step by step
/viewquestions - Browse active questions and archive a selection
/viewarchives - Browse the archive, recover or delete entries
/daily [id] - Post a daily question (random unless an id is given)
/editstats - Override a user's per-skill counters`

type Handler struct {
	client    *telegram.Client
	reg       *telegram.Registry
	questions *services.QuestionService
	archive   *services.ArchiveService
	stats     *services.StatsService
	daily     *daily.Manager

	adminIDs       []int64
	sessionTimeout time.Duration
	pagerExpiry    time.Duration
}

func NewHandler(client *telegram.Client, reg *telegram.Registry, questions *services.QuestionService, archive *services.ArchiveService, stats *services.StatsService, dailyMgr *daily.Manager, adminIDs []int64, sessionTimeout, pagerExpiry time.Duration) *Handler {
	return &Handler{
		client:         client,
		reg:            reg,
		questions:      questions,
		archive:        archive,
		stats:          stats,
		daily:          dailyMgr,
		adminIDs:       adminIDs,
		sessionTimeout: sessionTimeout,
		pagerExpiry:    pagerExpiry,
	}
}

// Handle processes one update. It is called on its own goroutine per
// update, so interactive flows may block here for as long as the user
// keeps responding.
func (h *Handler) Handle(upd telegram.Update) {
	switch {
	case upd.CallbackQuery != nil:
		h.handleCallback(upd.CallbackQuery)
	case upd.Message != nil && strings.HasPrefix(upd.Message.Text, "/"):
		h.handleCommand(upd.Message)
	case upd.Message != nil:
		h.handleText(upd.Message)
	}
}

func (h *Handler) handleCallback(cb *telegram.CallbackQuery) {
	if strings.HasPrefix(cb.Data, "d:") {
		if h.daily.HandleCallback(cb) {
			return
		}
	}

	if cb.Message != nil {
		delivered := h.reg.DispatchCallback(cb.Message.Chat.ID, cb.Message.MessageID, cb.From.ID, telegram.Event{
			Data:       cb.Data,
			CallbackID: cb.ID,
		})
		if delivered {
			return
		}
	}
	// Stale keyboard from a finished or expired session.
	h.client.AnswerCallbackQuery(cb.ID, "This menu has expired.", false)
}

func (h *Handler) handleText(msg *telegram.Message) {
	if msg.From == nil {
		return
	}
	h.reg.DispatchText(msg.Chat.ID, msg.From.ID, telegram.Event{Text: msg.Text})
}

func (h *Handler) handleCommand(msg *telegram.Message) {
	if msg.From == nil {
		return
	}
	cmd, args := splitCommand(msg.Text)

	switch cmd {
	case "/start", "/help":
		h.client.SendMessage(msg.Chat.ID, helpText, "HTML", nil)
	case "/stats":
		h.runFlow(msg, cmd, h.showStats)
	case "/leaderboard":
		h.runFlow(msg, cmd, func(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
			return h.showLeaderboard(ctx, surf, args)
		})
	case "/addquestion":
		h.runAdminFlow(msg, cmd, func(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
			return wizard.New(surf, h.questions).Run(ctx)
		})
	case "/viewquestions":
		h.runAdminFlow(msg, cmd, func(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
			return archiveflow.New(surf, h.questions, h.archive).RunActive(ctx)
		})
	case "/viewarchives":
		h.runAdminFlow(msg, cmd, func(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
			return archiveflow.New(surf, h.questions, h.archive).RunArchives(ctx)
		})
	case "/daily":
		h.runAdminFlow(msg, cmd, func(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
			var id uint
			if args != "" {
				n, err := strconv.ParseUint(args, 10, 64)
				if err != nil {
					return surf.Notify(ctx, "Usage: /daily [question id]")
				}
				id = uint(n)
			}
			if err := h.daily.Broadcast("", id); err != nil {
				return surf.Notify(ctx, fmt.Sprintf("Could not post the daily question: %s", err))
			}
			return nil
		})
	case "/editstats":
		h.runAdminFlow(msg, cmd, h.editStats)
	}
}

type flowFunc func(ctx context.Context, surf surface.Surface, msg *telegram.Message) error

func (h *Handler) runFlow(msg *telegram.Message, name string, fn flowFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), h.sessionTimeout)
	defer cancel()

	surf := telegram.NewChatSurface(h.client, h.reg, msg.Chat.ID, msg.From.ID, h.pagerExpiry)
	if err := fn(ctx, surf, msg); err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			surf.Notify(context.Background(), "Session timed out. Start over when you're ready.")
		case errors.Is(err, surface.ErrCancelled):
			// user backed out, nothing to report
		default:
			log.Printf("bot: %s flow for user %d failed: %v", name, msg.From.ID, err)
		}
	}
}

func (h *Handler) runAdminFlow(msg *telegram.Message, name string, fn flowFunc) {
	if !h.isAdmin(msg.From.ID) {
		h.client.SendMessage(msg.Chat.ID, "This command is restricted to admins.", "", nil)
		return
	}
	h.runFlow(msg, name, fn)
}

func (h *Handler) isAdmin(userID int64) bool {
	for _, id := range h.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (h *Handler) showStats(ctx context.Context, surf surface.Surface, msg *telegram.Message) error {
	overall, err := h.stats.UserStats(msg.From.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return surf.Notify(ctx, "You haven't answered any questions yet.")
		}
		return err
	}

	skills, err := h.stats.SkillStats(msg.From.ID)
	if err != nil {
		return err
	}

	header := fmt.Sprintf(
		"<b>Overall:</b> %d/%d correct (%.1f%%)\n\n",
		overall.TotalCorrect, overall.TotalAttempts,
		float64(overall.TotalCorrect)*100/float64(overall.TotalAttempts),
	)
	blocks := []pages.Block{{Text: header, Length: len(header)}}
	for _, s := range skills {
		text := fmt.Sprintf(
			"<b>%s ➔ %s</b>\n%s: %d/%d correct (%.1f%%)\n\n",
			s.Domain, s.Skill, strings.ToUpper(s.QuestionType),
			s.TotalCorrect, s.TotalAttempts,
			float64(s.TotalCorrect)*100/float64(s.TotalAttempts),
		)
		blocks = append(blocks, pages.Block{Text: text, Length: len(text)})
	}

	return surf.RenderPager(ctx, pages.BuildList(blocks, fmt.Sprintf("Stats for %s", msg.From.FirstName)))
}

func (h *Handler) showLeaderboard(ctx context.Context, surf surface.Surface, args string) error {
	byCorrect := strings.EqualFold(args, "correct")

	var entries []services.LeaderboardEntry
	var err error
	var title string
	if byCorrect {
		title = "Leaderboard: Most Correct"
		entries, err = h.stats.CorrectLeaderboard(10)
	} else {
		title = "Leaderboard: Best Accuracy"
		entries, err = h.stats.AccuracyLeaderboard(10)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return surf.Notify(ctx, "Nobody has answered a question yet.")
	}

	b := pages.NewBuilder(title)
	for i, e := range entries {
		b.AddField(
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("User %d: %d/%d correct (%.1f%%)", e.UserID, e.TotalCorrect, e.TotalAttempts, e.Accuracy),
		)
	}
	return surf.RenderPager(ctx, b.Pages())
}

// editStats walks an admin through overriding one skill counter for a user.
// The user's aggregate row is recomputed from the skill rows afterwards.
func (h *Handler) editStats(ctx context.Context, surf surface.Surface, _ *telegram.Message) error {
	fields, err := surf.CollectFreeText(ctx, []surface.FieldSpec{
		{Key: "user_id", Label: "Enter the target user's Telegram ID", MaxLen: 20},
	})
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(fields["user_id"]), 10, 64)
	if err != nil {
		return surf.Notify(ctx, "That doesn't look like a valid user ID.")
	}

	tb := pages.NewBuilder("Edit Stats: Question Type")
	tb.SetDescription(fmt.Sprintf("Editing stats for user <b>%d</b>. Select a question type.", userID))
	types, err := surf.ShowChoices(ctx, tb.Pages()[0], []surface.Choice{
		{Label: "EBRW", Value: "ebrw"},
		{Label: "Math", Value: "math"},
	}, 1)
	if err != nil {
		return err
	}
	qtype := types[0]

	db := pages.NewBuilder("Edit Stats: Domain")
	db.SetDescription("Select the domain.")
	var domainChoices []surface.Choice
	for _, d := range taxonomy.Domains(qtype) {
		domainChoices = append(domainChoices, surface.Choice{Label: d, Value: d})
	}
	domains, err := surf.ShowChoices(ctx, db.Pages()[0], domainChoices, 1)
	if err != nil {
		return err
	}
	domain := domains[0]

	sb := pages.NewBuilder("Edit Stats: Skill")
	sb.SetDescription(fmt.Sprintf("Select the skill under <b>%s</b>.", domain))
	var skillChoices []surface.Choice
	for _, s := range taxonomy.Skills(qtype, domain) {
		skillChoices = append(skillChoices, surface.Choice{Label: s, Value: s})
	}
	skills, err := surf.ShowChoices(ctx, sb.Pages()[0], skillChoices, 1)
	if err != nil {
		return err
	}
	skill := skills[0]

	counters, err := surf.CollectFreeText(ctx, []surface.FieldSpec{
		{Key: "correct", Label: "New total correct", MaxLen: 10},
		{Key: "attempts", Label: "New total attempts", MaxLen: 10},
	})
	if err != nil {
		return err
	}
	correct, err1 := strconv.Atoi(strings.TrimSpace(counters["correct"]))
	attempts, err2 := strconv.Atoi(strings.TrimSpace(counters["attempts"]))
	if err1 != nil || err2 != nil || correct < 0 || attempts < 0 || correct > attempts {
		return surf.Notify(ctx, "Counters must be non-negative numbers with correct ≤ attempts.")
	}

	updated, err := h.stats.OverrideSkillStats(userID, qtype, domain, skill, correct, attempts)
	if err != nil {
		return err
	}

	rb := pages.NewBuilder("Stats Updated")
	rb.AddField("Skill", fmt.Sprintf("%s ➔ %s", domain, skill))
	rb.AddField("New Counters", fmt.Sprintf("%d/%d correct", correct, attempts))
	rb.AddField("User Aggregate", fmt.Sprintf("%d/%d correct", updated.TotalCorrect, updated.TotalAttempts))
	_, err = surf.RenderPage(ctx, rb.Pages()[0])
	return err
}

func splitCommand(text string) (string, string) {
	parts := strings.SplitN(text, " ", 2)
	cmd := parts[0]
	// strip the @botname suffix used in group chats
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	args := ""
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}
