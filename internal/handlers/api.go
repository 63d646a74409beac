// Package handlers exposes a small read-only REST API over the question
// bank and stats, plus the websocket feed for live daily-question activity.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Adiar1/Crackd/internal/services"
)

type APIHandler struct {
	questions *services.QuestionService
	stats     *services.StatsService
}

func NewAPIHandler(questions *services.QuestionService, stats *services.StatsService) *APIHandler {
	return &APIHandler{questions: questions, stats: stats}
}

func (h *APIHandler) ListQuestions(c *gin.Context) {
	qs, err := h.questions.List(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

func (h *APIHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	q, err := h.questions.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch question"})
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *APIHandler) ListArchived(c *gin.Context) {
	archived, err := h.questions.ListArchived()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list archive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": archived})
}

func (h *APIHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	var entries []services.LeaderboardEntry
	var err error
	if c.Query("sort") == "correct" {
		entries, err = h.stats.CorrectLeaderboard(limit)
	} else {
		entries, err = h.stats.AccuracyLeaderboard(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *APIHandler) UserStats(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	overall, err := h.stats.UserStats(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user has no recorded answers"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	skills, err := h.stats.SkillStats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch skill stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overall": overall, "skills": skills})
}

func (h *APIHandler) Distribution(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	dist, err := h.stats.Distribution(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch distribution"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": id, "distribution": dist})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
