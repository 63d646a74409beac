// Package daily runs the daily question broadcast: posting a question to
// the group chat with an answer keyboard, collecting answers for a fixed
// window, updating the countdown in place, and revealing results when the
// window closes.
package daily

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Adiar1/Crackd/internal/models"
	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/telegram"
	"github.com/Adiar1/Crackd/internal/ws"
)

type Manager struct {
	client    *telegram.Client
	questions *services.QuestionService
	stats     *services.StatsService
	archive   *services.ArchiveService
	hub       *ws.Hub

	chatID   int64
	adminIDs []int64
	duration time.Duration

	mu     sync.Mutex
	active map[uint]*liveQuestion
}

type liveQuestion struct {
	q         *models.Question
	messageID int64
	expiresAt time.Time
	done      chan struct{}
}

func NewManager(client *telegram.Client, questions *services.QuestionService, stats *services.StatsService, archive *services.ArchiveService, hub *ws.Hub, chatID int64, adminIDs []int64, duration time.Duration) *Manager {
	return &Manager{
		client:    client,
		questions: questions,
		stats:     stats,
		archive:   archive,
		hub:       hub,
		chatID:    chatID,
		adminIDs:  adminIDs,
		duration:  duration,
		active:    make(map[uint]*liveQuestion),
	}
}

// Broadcast posts a daily question to the group chat. With id == 0 a random
// question is picked, optionally restricted by type. The posted message
// carries the answer keyboard and a countdown footer that is edited in
// place until the window closes.
func (m *Manager) Broadcast(questionType string, id uint) error {
	q, err := m.questions.Random(questionType, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("no question available for daily broadcast: %w", err)
		}
		return fmt.Errorf("failed to pick daily question: %w", err)
	}

	text := m.renderLive(q, m.duration)
	msgID, err := m.client.SendMessage(m.chatID, text, "HTML", telegram.DailyKeyboard(q.ID))
	if err != nil {
		return fmt.Errorf("failed to post daily question: %w", err)
	}
	if q.ImageURL != "" {
		if _, err := m.client.SendPhoto(m.chatID, q.ImageURL, "", ""); err != nil {
			log.Printf("daily: failed to send image for question %d: %v", q.ID, err)
		}
	}

	lq := &liveQuestion{
		q:         q,
		messageID: msgID,
		expiresAt: time.Now().Add(m.duration),
		done:      make(chan struct{}),
	}
	m.mu.Lock()
	m.active[q.ID] = lq
	m.mu.Unlock()

	// Admins get a private shortcut to pull the question mid-flight.
	for _, adminID := range m.adminIDs {
		_, err := m.client.SendMessage(adminID,
			fmt.Sprintf("Daily question <b>ID %d</b> is live. Archive it if it has a problem.", q.ID),
			"HTML", telegram.ArchiveShortcutKeyboard(q.ID))
		if err != nil {
			log.Printf("daily: failed to notify admin %d: %v", adminID, err)
		}
	}

	go m.countdown(lq)
	log.Printf("daily: broadcast question %d to chat %d", q.ID, m.chatID)
	return nil
}

// HandleCallback routes the daily-prefixed callback payloads. Returns false
// when the payload is not a daily callback.
func (m *Manager) HandleCallback(cb *telegram.CallbackQuery) bool {
	parts := strings.Split(cb.Data, ":")
	if len(parts) < 3 || parts[0] != "d" {
		return false
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return false
	}
	qid := uint(id)

	switch parts[1] {
	case "ans":
		if len(parts) == 4 {
			m.handleAnswer(cb, qid, parts[3])
			return true
		}
	case "det":
		m.handleDetails(cb, qid)
		return true
	case "arc":
		m.handleArchive(cb, qid)
		return true
	}
	return false
}

func (m *Manager) handleAnswer(cb *telegram.CallbackQuery, qid uint, choice string) {
	m.mu.Lock()
	lq, ok := m.active[qid]
	m.mu.Unlock()
	if !ok || time.Now().After(lq.expiresAt) {
		m.client.AnswerCallbackQuery(cb.ID, "This daily question has expired.", true)
		return
	}

	correct, err := m.stats.RecordAnswer(cb.From.ID, lq.q, choice)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyAnswered) {
			m.client.AnswerCallbackQuery(cb.ID, "You've already answered this question.", true)
			return
		}
		log.Printf("daily: failed to record answer from %d: %v", cb.From.ID, err)
		m.client.AnswerCallbackQuery(cb.ID, "Something went wrong recording your answer.", true)
		return
	}

	if correct {
		m.client.AnswerCallbackQuery(cb.ID, "✅ Correct!", true)
	} else {
		m.client.AnswerCallbackQuery(cb.ID, fmt.Sprintf("❌ Incorrect. The correct answer was %s.", lq.q.CorrectAnswer), true)
	}

	dist, err := m.stats.Distribution(qid)
	if err != nil {
		log.Printf("daily: failed to load distribution for question %d: %v", qid, err)
		return
	}

	// Full result with the explanation goes to the user privately so the
	// group chat stays spoiler-free.
	if _, err := m.client.SendMessage(cb.From.ID, m.renderResult(lq.q, choice, correct, dist), "HTML", nil); err != nil {
		log.Printf("daily: failed to DM result to %d: %v", cb.From.ID, err)
	}

	m.hub.Broadcast(qid, ws.WSMessage{Type: "answer", Data: ws.AnswerEvent{
		QuestionID:   qid,
		Correct:      correct,
		Distribution: dist,
	}})
}

func (m *Manager) handleDetails(cb *telegram.CallbackQuery, qid uint) {
	q, err := m.questions.Get(qid)
	if err != nil {
		m.client.AnswerCallbackQuery(cb.ID, "This question is no longer available.", true)
		return
	}

	dist, err := m.stats.Distribution(qid)
	if err != nil {
		log.Printf("daily: failed to load distribution for question %d: %v", qid, err)
		dist = map[string]int64{}
	}
	var total int64
	for _, n := range dist {
		total += n
	}

	text := fmt.Sprintf(
		"<b>Question ID:</b> %d\n<b>Domain/Skill:</b> %s ➔ %s\n<b>Difficulty:</b> %s\n<b>Answers so far:</b> %d",
		q.ID, q.Domain, q.Skill, pages.Capitalize(q.Difficulty), total,
	)
	if _, err := m.client.SendMessage(cb.From.ID, text, "HTML", nil); err != nil {
		log.Printf("daily: failed to DM details to %d: %v", cb.From.ID, err)
	}
	m.client.AnswerCallbackQuery(cb.ID, "Details sent to you privately.", false)
}

func (m *Manager) handleArchive(cb *telegram.CallbackQuery, qid uint) {
	if !m.isAdmin(cb.From.ID) {
		m.client.AnswerCallbackQuery(cb.ID, "Only admins can archive questions.", true)
		return
	}

	if err := m.archive.ArchiveOne(qid); err != nil {
		if errors.Is(err, services.ErrAlreadyArchived) {
			m.client.AnswerCallbackQuery(cb.ID, "Question is already archived.", true)
			return
		}
		log.Printf("daily: failed to archive question %d: %v", qid, err)
		m.client.AnswerCallbackQuery(cb.ID, "Failed to archive the question.", true)
		return
	}
	m.client.AnswerCallbackQuery(cb.ID, fmt.Sprintf("Question %d archived.", qid), true)

	m.mu.Lock()
	lq, ok := m.active[qid]
	if ok {
		delete(m.active, qid)
	}
	m.mu.Unlock()
	if ok {
		close(lq.done)
		text := fmt.Sprintf("<b>📅 Daily Question</b>\n\nQuestion %d was withdrawn by an admin.", qid)
		if err := m.client.EditMessageText(m.chatID, lq.messageID, text, "HTML", nil); err != nil {
			log.Printf("daily: failed to edit withdrawn question %d: %v", qid, err)
		}
	}
}

// countdown refreshes the footer every 30 seconds and closes the question
// out when its window expires.
func (m *Manager) countdown(lq *liveQuestion) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-lq.done:
			return
		case <-ticker.C:
			remaining := time.Until(lq.expiresAt)
			if remaining <= 0 {
				m.finish(lq)
				return
			}
			err := m.client.EditMessageText(m.chatID, lq.messageID,
				m.renderLive(lq.q, remaining), "HTML", telegram.DailyKeyboard(lq.q.ID))
			if err != nil {
				log.Printf("daily: countdown edit failed for question %d: %v", lq.q.ID, err)
			}
		}
	}
}

func (m *Manager) finish(lq *liveQuestion) {
	m.mu.Lock()
	delete(m.active, lq.q.ID)
	m.mu.Unlock()

	dist, err := m.stats.Distribution(lq.q.ID)
	if err != nil {
		log.Printf("daily: failed to load final distribution for question %d: %v", lq.q.ID, err)
		dist = map[string]int64{}
	}

	if err := m.client.EditMessageText(m.chatID, lq.messageID, m.renderFinal(lq.q, dist), "HTML", nil); err != nil {
		log.Printf("daily: failed to post final results for question %d: %v", lq.q.ID, err)
	}

	m.hub.Broadcast(lq.q.ID, ws.WSMessage{Type: "expired", Data: ws.ExpiredEvent{
		QuestionID:   lq.q.ID,
		Distribution: dist,
	}})
	log.Printf("daily: question %d expired", lq.q.ID)
}

func (m *Manager) isAdmin(userID int64) bool {
	for _, id := range m.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (m *Manager) renderLive(q *models.Question, remaining time.Duration) string {
	var sb strings.Builder
	sb.WriteString("<b>📅 Daily Question</b>\n\n")
	fmt.Fprintf(&sb, "<b>Question:</b> %s\n\n", q.Text)
	fmt.Fprintf(&sb, "A) %s\nB) %s\nC) %s\nD) %s\n\n", q.OptionA, q.OptionB, q.OptionC, q.OptionD)
	fmt.Fprintf(&sb, "<b>Domain/Skill:</b> %s ➔ %s\n", q.Domain, q.Skill)
	fmt.Fprintf(&sb, "<b>Difficulty:</b> %s\n\n", pages.Capitalize(q.Difficulty))
	fmt.Fprintf(&sb, "<i>Time remaining: %s</i>", formatRemaining(remaining))
	return sb.String()
}

func (m *Manager) renderResult(q *models.Question, choice string, correct bool, dist map[string]int64) string {
	var sb strings.Builder
	if correct {
		fmt.Fprintf(&sb, "✅ <b>Correct!</b> You answered %s.\n\n", choice)
	} else {
		fmt.Fprintf(&sb, "❌ <b>Incorrect.</b> You answered %s; the correct answer was %s) %s.\n\n",
			choice, q.CorrectAnswer, q.Option(q.CorrectAnswer))
	}
	fmt.Fprintf(&sb, "<b>Explanation:</b> %s\n\n", q.Explanation)
	sb.WriteString("<b>Current results:</b>\n")
	sb.WriteString(formatDistribution(dist))
	return sb.String()
}

func (m *Manager) renderFinal(q *models.Question, dist map[string]int64) string {
	var total int64
	for _, n := range dist {
		total += n
	}

	block := pages.FormatQuestion(q)
	var sb strings.Builder
	sb.WriteString("<b>📅 Daily Question (Ended)</b>\n\n")
	sb.WriteString(strings.TrimRight(block.Text, "\n"))
	fmt.Fprintf(&sb, "\n\n<b>Results</b> (%d answered):\n", total)
	sb.WriteString(formatDistribution(dist))
	return sb.String()
}

func formatDistribution(dist map[string]int64) string {
	var total int64
	for _, n := range dist {
		total += n
	}

	var sb strings.Builder
	for _, letter := range []string{"A", "B", "C", "D"} {
		n := dist[letter]
		pct := 0.0
		if total > 0 {
			pct = float64(n) * 100 / float64(total)
		}
		fmt.Fprintf(&sb, "%s: %.0f%% (%d)\n", letter, pct, n)
	}
	return sb.String()
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, min)
}
