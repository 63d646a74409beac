package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adiar1/Crackd/internal/models"
)

func TestRecordAnswerCorrect(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	q := seedMathQuestion(t, db)

	correct, err := svc.RecordAnswer(100, &q, "C")
	require.NoError(t, err)
	assert.True(t, correct)

	overall, err := svc.UserStats(100)
	require.NoError(t, err)
	assert.Equal(t, 1, overall.TotalCorrect)
	assert.Equal(t, 1, overall.TotalAttempts)

	skills, err := svc.SkillStats(100)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, q.Domain, skills[0].Domain)
	assert.Equal(t, q.Skill, skills[0].Skill)
	assert.Equal(t, 1, skills[0].TotalCorrect)
}

func TestRecordAnswerIncorrect(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	q := seedMathQuestion(t, db)

	correct, err := svc.RecordAnswer(100, &q, "A")
	require.NoError(t, err)
	assert.False(t, correct)

	overall, err := svc.UserStats(100)
	require.NoError(t, err)
	assert.Equal(t, 0, overall.TotalCorrect)
	assert.Equal(t, 1, overall.TotalAttempts)
}

func TestRecordAnswerDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	q := seedMathQuestion(t, db)

	_, err := svc.RecordAnswer(100, &q, "A")
	require.NoError(t, err)

	_, err = svc.RecordAnswer(100, &q, "C")
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	// counters unchanged by the rejected attempt
	overall, err := svc.UserStats(100)
	require.NoError(t, err)
	assert.Equal(t, 1, overall.TotalAttempts)
	assert.Equal(t, 0, overall.TotalCorrect)
}

func TestRecordAnswerAccumulatesAcrossSkills(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	algebra1 := seedMathQuestion(t, db)
	algebra2 := seedMathQuestion(t, db)
	geometry := seedQuestion(t, db, models.TypeMath, "Geometry and Trigonometry", "Circles")

	_, err := svc.RecordAnswer(100, &algebra1, "C")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(100, &algebra2, "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(100, &geometry, "C")
	require.NoError(t, err)

	skills, err := svc.SkillStats(100)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	// aggregate row equals the sum of the skill rows
	overall, err := svc.UserStats(100)
	require.NoError(t, err)
	var sumCorrect, sumAttempts int
	for _, s := range skills {
		sumCorrect += s.TotalCorrect
		sumAttempts += s.TotalAttempts
	}
	assert.Equal(t, sumCorrect, overall.TotalCorrect)
	assert.Equal(t, sumAttempts, overall.TotalAttempts)
	assert.Equal(t, 2, overall.TotalCorrect)
	assert.Equal(t, 3, overall.TotalAttempts)
}

func TestUserStatsUnknownUser(t *testing.T) {
	svc := NewStatsService(newTestDB(t))
	_, err := svc.UserStats(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverrideSkillStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	q := seedMathQuestion(t, db)

	_, err := svc.RecordAnswer(100, &q, "A")
	require.NoError(t, err)

	updated, err := svc.OverrideSkillStats(100, q.Type, q.Domain, q.Skill, 8, 10)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.TotalCorrect)
	assert.Equal(t, 10, updated.TotalAttempts)

	// a second skill row folds into the recomputed aggregate
	updated, err = svc.OverrideSkillStats(100, models.TypeMath, "Geometry and Trigonometry", "Circles", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TotalCorrect)
	assert.Equal(t, 12, updated.TotalAttempts)
}

func TestOverrideSkillStatsNewUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	updated, err := svc.OverrideSkillStats(200, models.TypeEBRW, "Craft and Structure", "Words in Context", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalCorrect)
	assert.Equal(t, 5, updated.TotalAttempts)

	overall, err := svc.UserStats(200)
	require.NoError(t, err)
	assert.Equal(t, 5, overall.TotalAttempts)
}

func TestLeaderboards(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	require.NoError(t, db.Create(&models.UserStat{UserID: 1, TotalCorrect: 9, TotalAttempts: 10}).Error)
	require.NoError(t, db.Create(&models.UserStat{UserID: 2, TotalCorrect: 20, TotalAttempts: 40}).Error)
	require.NoError(t, db.Create(&models.UserStat{UserID: 3, TotalCorrect: 0, TotalAttempts: 0}).Error)

	byAccuracy, err := svc.AccuracyLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, byAccuracy, 2)
	assert.Equal(t, int64(1), byAccuracy[0].UserID)
	assert.InDelta(t, 90.0, byAccuracy[0].Accuracy, 0.01)

	byCorrect, err := svc.CorrectLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, byCorrect, 2)
	assert.Equal(t, int64(2), byCorrect[0].UserID)

	limited, err := svc.CorrectLeaderboard(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDistribution(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	q := seedMathQuestion(t, db)

	for i, choice := range []string{"C", "C", "A"} {
		_, err := svc.RecordAnswer(int64(i+1), &q, choice)
		require.NoError(t, err)
	}

	dist, err := svc.Distribution(q.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 1, "B": 0, "C": 2, "D": 0}, dist)
}
