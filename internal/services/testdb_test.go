package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Adiar1/Crackd/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Question{},
		&models.QuestionArchive{},
		&models.QuestionAttempt{},
		&models.UserStat{},
		&models.UserSkillStat{},
	))
	return db
}

func seedQuestion(t *testing.T, db *gorm.DB, qtype, domain, skill string) models.Question {
	t.Helper()

	q := models.Question{
		Type:          qtype,
		Text:          "What is the value of x in 2x = 10?",
		CorrectAnswer: "C",
		OptionA:       "2",
		OptionB:       "4",
		OptionC:       "5",
		OptionD:       "10",
		Explanation:   "Divide both sides by 2.",
		Difficulty:    models.DifficultyEasy,
		Domain:        domain,
		Skill:         skill,
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func seedMathQuestion(t *testing.T, db *gorm.DB) models.Question {
	return seedQuestion(t, db, models.TypeMath, "Algebra", "Linear equations in one variable")
}
