package services

import (
	"errors"
	"time"

	"github.com/Adiar1/Crackd/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyAnswered marks a second answer attempt on the same question by
// the same user. Expected outcome, no counters change.
var ErrAlreadyAnswered = errors.New("question already answered")

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// RecordAnswer stores one user's answer to a question and bumps the
// aggregate counters. Everything happens in a single transaction: the
// attempt row (unique per user+question), the per-skill counter, and the
// per-user counter. Counter updates are upsert-with-increment so concurrent
// answers never lose updates.
func (s *StatsService) RecordAnswer(userID int64, q *models.Question, choice string) (bool, error) {
	correct := choice == q.CorrectAnswer
	inc := 0
	if correct {
		inc = 1
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.QuestionAttempt
		err := tx.Where("user_id = ? AND question_id = ?", userID, q.ID).First(&existing).Error
		if err == nil {
			return ErrAlreadyAnswered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		attempt := models.QuestionAttempt{
			UserID:     userID,
			QuestionID: q.ID,
			Choice:     choice,
			IsCorrect:  correct,
			AnsweredAt: time.Now().UTC(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "question_type"}, {Name: "domain"}, {Name: "skill"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_correct":  gorm.Expr("user_skill_stats.total_correct + ?", inc),
				"total_attempts": gorm.Expr("user_skill_stats.total_attempts + 1"),
			}),
		}).Create(&models.UserSkillStat{
			UserID:        userID,
			QuestionType:  q.Type,
			Domain:        q.Domain,
			Skill:         q.Skill,
			TotalCorrect:  inc,
			TotalAttempts: 1,
		}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_correct":  gorm.Expr("user_stats.total_correct + ?", inc),
				"total_attempts": gorm.Expr("user_stats.total_attempts + 1"),
			}),
		}).Create(&models.UserStat{
			UserID:        userID,
			TotalCorrect:  inc,
			TotalAttempts: 1,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return correct, nil
}

// UserStats returns the aggregate row for a user, or ErrNotFound when the
// user has never answered.
func (s *StatsService) UserStats(userID int64) (*models.UserStat, error) {
	var stat models.UserStat
	if err := s.db.First(&stat, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stat, nil
}

// SkillStats returns the per-skill rows with at least one attempt.
func (s *StatsService) SkillStats(userID int64) ([]models.UserSkillStat, error) {
	var stats []models.UserSkillStat
	err := s.db.Where("user_id = ? AND total_attempts > 0", userID).
		Order("question_type, domain, skill").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// OverrideSkillStats force-sets one skill counter and recomputes the user's
// aggregate row as the sum of all their skill rows, in one transaction.
func (s *StatsService) OverrideSkillStats(userID int64, questionType, domain, skill string, correct, attempts int) (*models.UserStat, error) {
	var updated models.UserStat
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "question_type"}, {Name: "domain"}, {Name: "skill"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_correct":  correct,
				"total_attempts": attempts,
			}),
		}).Create(&models.UserSkillStat{
			UserID:        userID,
			QuestionType:  questionType,
			Domain:        domain,
			Skill:         skill,
			TotalCorrect:  correct,
			TotalAttempts: attempts,
		}).Error
		if err != nil {
			return err
		}

		var sums struct {
			Correct  int
			Attempts int
		}
		err = tx.Model(&models.UserSkillStat{}).
			Select("COALESCE(SUM(total_correct),0) as correct, COALESCE(SUM(total_attempts),0) as attempts").
			Where("user_id = ?", userID).
			Scan(&sums).Error
		if err != nil {
			return err
		}

		updated = models.UserStat{UserID: userID, TotalCorrect: sums.Correct, TotalAttempts: sums.Attempts}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_correct":  sums.Correct,
				"total_attempts": sums.Attempts,
			}),
		}).Create(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type LeaderboardEntry struct {
	UserID        int64   `json:"user_id"`
	TotalCorrect  int     `json:"total_correct"`
	TotalAttempts int     `json:"total_attempts"`
	Accuracy      float64 `json:"accuracy"`
}

// AccuracyLeaderboard returns the top users by accuracy among those with at
// least one attempt.
func (s *StatsService) AccuracyLeaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.Model(&models.UserStat{}).
		Select("user_id, total_correct, total_attempts, (total_correct * 100.0 / total_attempts) as accuracy").
		Where("total_attempts > 0").
		Order("accuracy DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CorrectLeaderboard returns the top users by total correct answers.
func (s *StatsService) CorrectLeaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.Model(&models.UserStat{}).
		Select("user_id, total_correct, total_attempts, (total_correct * 100.0 / total_attempts) as accuracy").
		Where("total_attempts > 0").
		Order("total_correct DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Distribution counts attempts per choice letter for one question. Letters
// with no attempts are present with a zero count.
func (s *StatsService) Distribution(questionID uint) (map[string]int64, error) {
	rows := []struct {
		Choice string
		N      int64
	}{}
	err := s.db.Model(&models.QuestionAttempt{}).
		Select("choice, COUNT(*) as n").
		Where("question_id = ?", questionID).
		Group("choice").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := map[string]int64{"A": 0, "B": 0, "C": 0, "D": 0}
	for _, r := range rows {
		dist[r.Choice] = r.N
	}
	return dist, nil
}
