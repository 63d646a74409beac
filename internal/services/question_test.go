package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adiar1/Crackd/internal/models"
)

func TestQuestionCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)

	id, err := svc.Create(&models.Question{
		Type:          models.TypeEBRW,
		Text:          "Which choice completes the text?",
		CorrectAnswer: "A",
		OptionA:       "however",
		OptionB:       "therefore",
		OptionC:       "meanwhile",
		OptionD:       "instead",
		Explanation:   "The sentence sets up a contrast.",
		Difficulty:    models.DifficultyMedium,
		Domain:        "Expression of Ideas",
		Skill:         "Transitions",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Which choice completes the text?", got.Text)
	assert.Equal(t, "A", got.CorrectAnswer)
}

func TestQuestionGetMissing(t *testing.T) {
	svc := NewQuestionService(newTestDB(t))

	_, err := svc.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionListFiltersByType(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)

	seedMathQuestion(t, db)
	seedMathQuestion(t, db)
	seedQuestion(t, db, models.TypeEBRW, "Craft and Structure", "Words in Context")

	math, err := svc.List(models.TypeMath)
	require.NoError(t, err)
	assert.Len(t, math, 2)

	all, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuestionRandom(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)

	_, err := svc.Random("", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	q1 := seedMathQuestion(t, db)
	q2 := seedMathQuestion(t, db)

	got, err := svc.Random(models.TypeMath, 0)
	require.NoError(t, err)
	assert.Contains(t, []uint{q1.ID, q2.ID}, got.ID)

	got, err = svc.Random("", q2.ID)
	require.NoError(t, err)
	assert.Equal(t, q2.ID, got.ID)

	_, err = svc.Random(models.TypeEBRW, q2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListArchivedOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	qsvc := NewQuestionService(db)
	asvc := NewArchiveService(db)

	first := seedMathQuestion(t, db)
	second := seedMathQuestion(t, db)

	require.NoError(t, asvc.ArchiveOne(first.ID))
	db.Model(&models.QuestionArchive{}).Where("id = ?", first.ID).
		Update("archived_at", "2020-01-01 00:00:00")
	require.NoError(t, asvc.ArchiveOne(second.ID))

	archived, err := qsvc.ListArchived()
	require.NoError(t, err)
	require.Len(t, archived, 2)
	assert.Equal(t, second.ID, archived[0].ID)
	assert.Equal(t, first.ID, archived[1].ID)
}
